package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rm-hull/imgpipe/internal"
	"github.com/rm-hull/imgpipe/internal/config"
	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rm-hull/imgpipe/internal/transformer"
	"github.com/rs/zerolog/log"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

func ApiServer(settings *config.Settings, cfg *transform.Config, debug bool) {
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid transform config")
	}

	format, err := raster.ParseFormat(settings.Server.OutputFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid output format")
	}

	for _, dir := range []string{settings.Server.InboxDir, settings.Server.OutboxDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("failed to create directory")
		}
	}

	tr := NewTransformer(settings)
	sched, err := internal.NewScheduler(settings.Server.ScanInterval, &internal.BatchJob{
		InputDir:    settings.Server.InboxDir,
		OutputDir:   settings.Server.OutboxDir,
		Format:      format,
		PoolSize:    max(1, settings.Workers),
		Config:      cfg,
		Transformer: tr,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start inbox scheduler")
	}

	r, err := NewRouter(settings, cfg, tr, debug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize router")
	}

	addr := fmt.Sprintf(":%d", settings.Server.Port)
	log.Info().Int("port", settings.Server.Port).Msg("starting HTTP API server")
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Int("port", settings.Server.Port).Msg("HTTP API server failed to start")
	}

	err = sched.Shutdown()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to shutdown scheduler")
	}
}

func NewRouter(settings *config.Settings, cfg *transform.Config, tr *transformer.Transformer, debug bool) (*gin.Engine, error) {
	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		log.Warn().Msg("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	if err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{}); err != nil {
		return nil, fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	maxBytes := settings.Server.MaxUploadMB << 20
	r.POST("/v1/transform", transformHandler(tr, cfg, maxBytes))
	r.POST("/v1/info", infoHandler(maxBytes))
	r.Static("/v1/outbox", settings.Server.OutboxDir)

	return r, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, raster.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, raster.ErrDecode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, requestID string, err error) {
	status := statusFor(err)
	log.Warn().Err(err).Str("request_id", requestID).Int("status", status).Msg("request failed")
	c.JSON(status, gin.H{"error": err.Error(), "request_id": requestID})
}

// requestConfig starts from the server's configuration, replaced wholesale by
// the "config" form field when one is posted. Local logo paths are ignored
// and font names are reduced to a bare file name, so uploads cannot read
// arbitrary files from the server
func requestConfig(c *gin.Context, defaults *transform.Config) (*transform.Config, error) {
	raw := c.PostForm("config")
	if raw == "" {
		cfg := *defaults
		return &cfg, nil
	}
	cfg, err := transform.Parse([]byte(raw))
	if err != nil {
		return nil, err
	}
	logo := cfg.ImageWatermark.Path
	if logo != "" && !strings.HasPrefix(logo, "http://") && !strings.HasPrefix(logo, "https://") {
		log.Warn().Str("logo", logo).Msg("ignoring local logo path in uploaded config")
		cfg.ImageWatermark.Path = ""
	}
	cfg.TextWatermark.Font = fontName(cfg.TextWatermark.Font)
	cfg.Timestamp.Font = fontName(cfg.Timestamp.Font)
	return cfg, nil
}

func fontName(name string) string {
	if name == "" {
		return ""
	}
	base := filepath.Base(filepath.Clean(name))
	if base != name {
		log.Warn().Str("font", name).Str("using", base).Msg("ignoring directory in uploaded font name")
	}
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

func transformHandler(tr *transformer.Transformer, defaults *transform.Config, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-Id", requestID)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		fh, err := c.FormFile("file")
		if err != nil {
			abort(c, requestID, fmt.Errorf("%w: missing file: %v", raster.ErrInvalidParameter, err))
			return
		}

		cfg, err := requestConfig(c, defaults)
		if err != nil {
			abort(c, requestID, err)
			return
		}

		format, err := raster.ParseFormat(c.DefaultPostForm("format", "jpg"))
		if err != nil {
			abort(c, requestID, err)
			return
		}

		f, err := fh.Open()
		if err != nil {
			abort(c, requestID, err)
			return
		}
		defer func() {
			_ = f.Close()
		}()

		img, err := raster.ReadBounded(f)
		if err != nil {
			abort(c, requestID, err)
			return
		}

		if err := tr.Apply(img, cfg); err != nil {
			abort(c, requestID, err)
			return
		}

		var buf bytes.Buffer
		if err := img.Write(&buf, format, cfg.Quality); err != nil {
			abort(c, requestID, err)
			return
		}

		log.Info().Str("request_id", requestID).Str("file", fh.Filename).Int("bytes", buf.Len()).Msg("image transformed")
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}

func infoHandler(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-Id", requestID)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		fh, err := c.FormFile("file")
		if err != nil {
			abort(c, requestID, fmt.Errorf("%w: missing file: %v", raster.ErrInvalidParameter, err))
			return
		}

		tmpDir, err := os.MkdirTemp("", "imgpipe-info-*")
		if err != nil {
			abort(c, requestID, err)
			return
		}
		defer func() {
			_ = os.RemoveAll(tmpDir)
		}()

		path := filepath.Join(tmpDir, requestID+filepath.Ext(fh.Filename))
		if err := c.SaveUploadedFile(fh, path); err != nil {
			abort(c, requestID, err)
			return
		}

		info, err := raster.LoadInfo(path)
		if err != nil {
			abort(c, requestID, err)
			return
		}
		info.Filename = filepath.Base(fh.Filename)
		c.JSON(http.StatusOK, info)
	}
}
