package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rm-hull/imgpipe/internal/transformer"
	"github.com/rs/zerolog/log"
)

var ErrNoImages = errors.New("no images to process")

type Processor struct {
	startTime   time.Time
	endTime     time.Time
	inputDir    string
	outputDir   string
	format      raster.Format
	poolSize    int
	maxJobs     int
	jobs        chan string
	results     chan error
	files       []string
	cfg         *transform.Config
	transformer *transformer.Transformer
}

// NewBatch collects the images in inputDir that have no output yet, ready to
// be transformed into outputDir by a pool of workers
func NewBatch(inputDir, outputDir string, poolSize int, format raster.Format, cfg *transform.Config, tr *transformer.Transformer) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	startTime := time.Now()

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", inputDir, err)
	}

	p := &Processor{
		startTime:   startTime,
		inputDir:    inputDir,
		outputDir:   outputDir,
		format:      format,
		poolSize:    poolSize,
		maxJobs:     -1,
		jobs:        make(chan string),
		results:     make(chan error),
		cfg:         cfg,
		transformer: tr,
	}

	p.files = make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !raster.IsImageFile(entry.Name()) {
			continue
		}
		file := filepath.Join(inputDir, entry.Name())
		if _, err := os.Stat(p.OutputPath(file)); err == nil {
			continue
		}
		p.files = append(p.files, file)
	}
	sort.Strings(p.files)

	log.Info().Str("dir", inputDir).Int("files", len(p.files)).Msg("batch input scanned")
	if len(p.files) == 0 {
		return nil, ErrNoImages
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outputDir, err)
	}
	return p, nil
}

// DispatchJobs sends files to the jobs channel for processing by workers.
// When maxJobs is greater than zero, it limits the number of jobs dispatched,
// hence set to -1 to dispatch all jobs.
func (p *Processor) DispatchJobs() {
	go func() {
		for n, file := range p.files {
			if p.maxJobs > 0 && n >= p.maxJobs {
				break
			}
			p.jobs <- file
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Info().Int("pool_size", p.poolSize).Msg("starting batch workers")

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Debug().Int("worker", i).Msg("worker started")
	for file := range p.jobs {
		p.results <- p.processFile(file)
	}
	log.Debug().Int("worker", i).Msg("worker finished")
}

func (p *Processor) OutputPath(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(p.outputDir, base+"."+p.format.Ext())
}

func (p *Processor) processFile(file string) error {
	filename := p.OutputPath(file)

	// if the output already exists, skip processing
	if _, err := os.Stat(filename); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := p.transformer.Save(file, filename, p.cfg); err != nil {
		return fmt.Errorf("failed to transform %s: %w", file, err)
	}
	return nil
}

func (p *Processor) Wait() []error {
	waitFor := p.maxJobs
	if waitFor < 0 || waitFor > len(p.files) {
		waitFor = len(p.files)
	}
	log.Info().Int("files", waitFor).Msg("waiting for images to be processed")

	errors := make([]error, 0, 10)
	for range waitFor {
		err := <-p.results
		if err != nil {
			errors = append(errors, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Info().Dur("elapsed", elapsed).Int("errors", len(errors)).Msg("all images processed")
	return errors
}

// BatchJob bundles everything needed to run a batch, so it can be scheduled.
// Limit caps the number of images taken per run; zero takes them all
type BatchJob struct {
	InputDir    string
	OutputDir   string
	Format      raster.Format
	PoolSize    int
	Limit       int
	Config      *transform.Config
	Transformer *transformer.Transformer
}

// Run processes the input directory once. An empty input directory is not an error
func (job *BatchJob) Run() error {
	processor, err := NewBatch(job.InputDir, job.OutputDir, job.PoolSize, job.Format, job.Config, job.Transformer)
	if errors.Is(err, ErrNoImages) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	if job.Limit > 0 {
		processor.maxJobs = job.Limit
	}

	processor.StartWorkers()
	processor.DispatchJobs()
	if errs := processor.Wait(); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
