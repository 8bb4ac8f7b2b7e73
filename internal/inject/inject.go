package inject

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	appconfig "github.com/dmorgan81/kittenbass/internal/config"
	"github.com/dmorgan81/kittenbass/internal/feed"
	"github.com/dmorgan81/kittenbass/internal/handler"
	"github.com/dmorgan81/kittenbass/internal/image"
	"github.com/dmorgan81/kittenbass/internal/log"
	"github.com/dmorgan81/kittenbass/internal/page"
	"github.com/dmorgan81/kittenbass/internal/param"
	"github.com/dmorgan81/kittenbass/internal/prompt"
	"github.com/dmorgan81/kittenbass/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

func Setup(ctx context.Context, cfg *appconfig.Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*slog.Logger](injector, logger)
	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	do.Provide[*prompt.Randomizer](injector, prompt.NewRandomizer)
	do.Provide[image.Generator](injector, NewChain)
	do.Provide[*store.Store](injector, store.NewStore)
	do.Provide[*page.Templator](injector, page.NewTemplator)
	do.Provide[*feed.Generator](injector, feed.NewGenerator)

	do.ProvideNamed[string](injector, "openai_key", func(i *do.Injector) (string, error) {
		if cfg.OpenAIKey != "" {
			logger.Info("using provider credential from environment", log.Secret(cfg.OpenAIKey))
			return cfg.OpenAIKey, nil
		}
		if cfg.OpenAIKeyParam == "" {
			return "", errors.New("one of OPENAI_API_KEY or OPENAI_API_KEY_PARAM is required")
		}
		key, err := do.MustInvoke[param.Fetcher](i).Fetch(ctx, cfg.OpenAIKeyParam)
		if err != nil {
			return "", err
		}
		logger.Info("using provider credential from parameter store", log.Secret(key))
		return key, nil
	})
	do.ProvideNamedValue[string](injector, "openai_base_url", cfg.OpenAIBaseURL)
	do.ProvideNamedValue[[]string](injector, "models", cfg.Models)
	do.ProvideNamedValue[string](injector, "size", cfg.Size)
	do.ProvideNamedValue[bool](injector, "url_fallback", cfg.URLFallback)
	do.ProvideNamedValue[time.Duration](injector, "store_ttl", cfg.StoreTTL)
	do.ProvideNamedValue[string](injector, "response_mode", cfg.ResponseMode)
	do.ProvideNamedValue[string](injector, "public_base_url", cfg.PublicBaseURL)

	do.Provide[*handler.Handler](injector, handler.NewHandler)

	return injector
}

// NewChain builds one OpenAI backend per configured model, in order.
func NewChain(i *do.Injector) (image.Generator, error) {
	key, err := do.InvokeNamed[string](i, "openai_key")
	if err != nil {
		return nil, err
	}
	client := do.MustInvoke[*http.Client](i)
	baseURL := do.MustInvokeNamed[string](i, "openai_base_url")
	size := do.MustInvokeNamed[string](i, "size")
	userAgent := "kittenbass/" + revision()

	backends := lo.Map(do.MustInvokeNamed[[]string](i, "models"), func(model string, _ int) image.Backend {
		return &image.OpenAIBackend{
			Client:    client,
			BaseURL:   baseURL,
			Key:       key,
			Model:     model,
			Size:      size,
			UserAgent: userAgent,
		}
	})

	return &image.Chain{
		Backends: backends,
		Client:   client,
		FetchURL: do.MustInvokeNamed[bool](i, "url_fallback"),
	}, nil
}

func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	setting := lo.FindOrElse(info.Settings, debug.BuildSetting{Value: "unknown"}, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	return setting.Value
}
