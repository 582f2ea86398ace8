package runner

import (
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// BuildContainer creates the DI scope shared by every target of a job.
// Services other than the logger are created when first requested.
func BuildContainer(logger *zap.Logger) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, logger)

	// One pooled client per job so connections are reused across targets.
	do.Provide(injector, func(i do.Injector) (*http.Client, error) {
		return cleanhttp.DefaultPooledClient(), nil
	})

	return injector
}
