package cmd

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/imgpipe/internal/config"
	"github.com/rm-hull/imgpipe/internal/models/transform"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rm-hull/imgpipe/internal/raster/stage"
	"github.com/rm-hull/imgpipe/internal/transformer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	router *gin.Engine
	outbox string
)

// the router registers prometheus collectors globally, so it is built once
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	outbox, err = os.MkdirTemp("", "imgpipe-outbox-*")
	if err != nil {
		panic(err)
	}

	settings := &config.Settings{Server: config.Server{OutboxDir: outbox, MaxUploadMB: 4}}
	tr := transformer.New(transformer.WithFonts(stage.NewFontResolver(nil, "")))
	router, err = NewRouter(settings, transform.DefaultConfig(), tr, false)
	if err != nil {
		panic(err)
	}

	code := m.Run()
	_ = os.RemoveAll(outbox)
	os.Exit(code)
}

func pngBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{200, 30, 30, 255}), imaging.PNG))
	return buf.Bytes()
}

// oversized keeps a 1x1 PNG body but claims w x h in its header
func oversized(t *testing.T, w, h uint32) []byte {
	b := pngBytes(t, 1, 1)
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func upload(t *testing.T, path string, file []byte, fields map[string]string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if file != nil {
		fw, err := mw.CreateFormFile("file", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTransformEndpoint(t *testing.T) {
	t.Run("applies the posted config", func(t *testing.T) {
		w := upload(t, "/v1/transform", pngBytes(t, 40, 20), map[string]string{
			"config": `{"rotate": "90", "border": {"width": 2}}`,
			"format": "png",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

		img, err := raster.NewImageFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, 24, img.Width())
		assert.Equal(t, 44, img.Height())
	})

	t.Run("defaults to jpeg", func(t *testing.T) {
		w := upload(t, "/v1/transform", pngBytes(t, 10, 10), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	})

	t.Run("missing file", func(t *testing.T) {
		w := upload(t, "/v1/transform", nil, map[string]string{"format": "png"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid config", func(t *testing.T) {
		w := upload(t, "/v1/transform", pngBytes(t, 10, 10), map[string]string{"config": `{"resize": "big"}`})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		w := upload(t, "/v1/transform", pngBytes(t, 10, 10), map[string]string{"format": "xcf"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized upload is rejected before decoding", func(t *testing.T) {
		w := upload(t, "/v1/transform", oversized(t, 200000, 200000), map[string]string{"format": "png"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized resize is rejected", func(t *testing.T) {
		w := upload(t, "/v1/transform", pngBytes(t, 10, 10), map[string]string{"config": `{"resize": "200000x200000"}`})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("font paths do not reach the filesystem", func(t *testing.T) {
		w := upload(t, "/v1/transform", pngBytes(t, 200, 100), map[string]string{
			"config": `{"text_watermark": {"text": "hi", "font": "/dev/zero"}, "timestamp": {"enabled": true, "font": "/etc/hostname"}}`,
			"format": "png",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("undecodable upload", func(t *testing.T) {
		w := upload(t, "/v1/transform", []byte("definitely not an image"), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestInfoEndpoint(t *testing.T) {
	w := upload(t, "/v1/info", pngBytes(t, 64, 48), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var info raster.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "photo.png", info.Filename)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 48, info.Height)
	assert.Equal(t, "64:48", info.AspectRatio)
	assert.Equal(t, "PNG", info.Format)

	w = upload(t, "/v1/info", []byte("junk"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestOutboxAndHealth(t *testing.T) {
	require.NoError(t, os.WriteFile(filepath.Join(outbox, "done.jpg"), []byte("jpeg bytes"), 0644))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/outbox/done.jpg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg bytes", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestConfig(t *testing.T) {
	post := func(raw string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		form := url.Values{}
		if raw != "" {
			form.Set("config", raw)
		}
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return c
	}

	defaults := transform.DefaultConfig()
	defaults.Grayscale = true

	cfg, err := requestConfig(post(""), defaults)
	require.NoError(t, err)
	assert.True(t, cfg.Grayscale)
	assert.NotSame(t, defaults, cfg)

	cfg, err = requestConfig(post(`{"image_watermark": {"path": "/etc/passwd"}, "invert": true}`), defaults)
	require.NoError(t, err)
	assert.Empty(t, cfg.ImageWatermark.Path)
	assert.True(t, cfg.Invert)
	assert.False(t, cfg.Grayscale)

	cfg, err = requestConfig(post(`{"image_watermark": {"path": "https://example.com/logo.png"}}`), defaults)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/logo.png", cfg.ImageWatermark.Path)
}

func TestRequestConfigFonts(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	form := url.Values{}
	form.Set("config", `{"text_watermark": {"font": "/dev/zero"}, "timestamp": {"font": "../../etc/shadow"}}`)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cfg, err := requestConfig(c, transform.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "zero", cfg.TextWatermark.Font)
	assert.Equal(t, "shadow", cfg.Timestamp.Font)

	assert.Equal(t, "arial.ttf", fontName("arial.ttf"))
	assert.Equal(t, "", fontName(""))
	assert.Equal(t, "", fontName(".."))
	assert.Equal(t, "", fontName("/"))
}
