package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmorgan81/kittenbass/internal/config"
	"github.com/dmorgan81/kittenbass/internal/feed"
	"github.com/dmorgan81/kittenbass/internal/image"
	"github.com/dmorgan81/kittenbass/internal/log"
	"github.com/dmorgan81/kittenbass/internal/page"
	"github.com/dmorgan81/kittenbass/internal/prompt"
	"github.com/dmorgan81/kittenbass/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const (
	liveness     = "Kittens-Boots-Bass Action OK"
	contentType  = "image/png"
	cacheControl = "public, max-age=86400"
)

type Handler struct {
	randomizer *prompt.Randomizer
	generator  image.Generator
	store      *store.Store
	templator  *page.Templator
	feed       *feed.Generator
	mode       string
	baseURL    string
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return &Handler{
		randomizer: do.MustInvoke[*prompt.Randomizer](i),
		generator:  do.MustInvoke[image.Generator](i),
		store:      do.MustInvoke[*store.Store](i),
		templator:  do.MustInvoke[*page.Templator](i),
		feed:       do.MustInvoke[*feed.Generator](i),
		mode:       do.MustInvokeNamed[string](i, "response_mode"),
		baseURL:    do.MustInvokeNamed[string](i, "public_base_url"),
	}, nil
}

type generated struct {
	data   []byte
	prompt string
	model  string
}

func (h *Handler) generate(ctx context.Context, override string) (generated, error) {
	p := override
	if p == "" {
		p = h.randomizer.Randomize(ctx)
	}
	data, model, err := h.generator.Generate(ctx, p)
	if err != nil {
		return generated{}, err
	}
	return generated{data, p, model}, nil
}

// externalURL is PUBLIC_BASE_URL when configured, otherwise the scheme and host
// the request came in on.
func (h *Handler) externalURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := lo.Ternary(c.Request.TLS != nil, "https", "http")
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
		scheme = strings.TrimSpace(scheme)
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, liveness)
}

func (h *Handler) KittenImage(c *gin.Context) {
	ctx := c.Request.Context()
	log := log.FromContextOrDiscard(ctx).WithGroup("kitten-image").With("mode", h.mode)
	log.Info("handling kitten image request")

	img, err := h.generate(ctx, "")
	if errors.Is(err, image.ErrNoImage) {
		log.Error("upstream produced no image", "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "no_image_returned"})
		return
	}
	if err != nil {
		log.Error("generating image", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	if h.mode == config.ModeB64 {
		c.JSON(http.StatusOK, gin.H{"image_b64": base64.StdEncoding.EncodeToString(img.data)})
		return
	}

	id := h.store.Put(ctx, store.Entry{
		Data:        img.data,
		ContentType: contentType,
		Prompt:      img.prompt,
		Model:       img.model,
	})
	c.JSON(http.StatusOK, gin.H{"image_url": h.externalURL(c) + "/img/" + id})
}

func (h *Handler) Image(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.store.Get(id)
	if !ok {
		log.FromContextOrDiscard(c.Request.Context()).Warn("image not found", "id", id)
		c.String(http.StatusNotFound, "Not found")
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.Data(http.StatusOK, lo.Ternary(entry.ContentType != "", entry.ContentType, contentType), entry.Data)
}

func (h *Handler) Page(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	entry, ok := h.store.Get(id)
	if !ok {
		log.FromContextOrDiscard(ctx).Warn("page not found", "id", id)
		c.String(http.StatusNotFound, "Not found")
		return
	}

	html, err := h.templator.Template(ctx, page.Params{
		Image:   h.externalURL(c) + "/img/" + id,
		Model:   entry.Model,
		Prompt:  entry.Prompt,
		Expires: entry.CreatedAt.Add(h.store.TTL()).Format(time.RFC3339),
	})
	if err != nil {
		log.FromContextOrDiscard(ctx).Error("rendering page", "id", id, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *Handler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	rss, err := h.feed.Generate(ctx, h.externalURL(c))
	if err != nil {
		log.FromContextOrDiscard(ctx).Error("generating feed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", rss)
}

type Input struct {
	Prompt string `json:"prompt,omitempty"`
}

type Output struct {
	ImageB64 string `json:"image_b64"`
	Prompt   string `json:"prompt"`
	Model    string `json:"model"`
}

// Invoke is the lambda entry point. It always answers inline, there is no
// store to point a url at between invocations.
func (h *Handler) Invoke(ctx context.Context, input Input) (Output, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("invoke").With("input", input)
	log.Info("handling lambda invocation")

	img, err := h.generate(ctx, input.Prompt)
	if errors.Is(err, image.ErrNoImage) {
		log.Error("upstream produced no image")
		return Output{}, fmt.Errorf("no_image_returned: %w", err)
	}
	if err != nil {
		return Output{}, err
	}
	return Output{
		ImageB64: base64.StdEncoding.EncodeToString(img.data),
		Prompt:   img.prompt,
		Model:    img.model,
	}, nil
}
