package services

import (
	"context"

	"github.com/planmint/designvault/internal/client/identity"
	"github.com/planmint/designvault/internal/client/models"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/logging"
)

// UpgradePrompter is shown to the user when a guest hits the rendering
// ceiling. A true result means the user chose to upgrade; the caller then
// re-checks the quota under whatever identity the upgrade produced instead
// of assuming the original request is denied.
type UpgradePrompter interface {
	PromptUpgrade(ctx context.Context) (bool, error)
}

// QuotaGuard caps the total number of renderings a guest identity can hold
// across all of its designs. Anonymous and account identities are unbounded.
type QuotaGuard struct {
	limit    int
	prompter UpgradePrompter
	logger   logging.Logger
}

func NewQuotaGuard(limit int, prompter UpgradePrompter, logger logging.Logger) *QuotaGuard {
	return &QuotaGuard{limit: limit, prompter: prompter, logger: logger}
}

// CheckAllowed reports whether id may add one more rendering given its
// current designs. When a guest is at the ceiling the guard shows the
// upgrade prompt; whatever the user answers, the current request is denied
// with common.ErrQuotaExceeded and the caller re-checks after any upgrade.
func (g *QuotaGuard) CheckAllowed(ctx context.Context, id *identity.Identity, designs []models.Design) (bool, error) {
	if id == nil || id.Kind != identity.KindGuest {
		return true, nil
	}

	total := models.TotalArtifacts(designs)
	if total < g.limit {
		return true, nil
	}

	g.logger.Info(ctx, "guest rendering ceiling reached", "total", total, "limit", g.limit)

	if g.prompter != nil {
		upgraded, err := g.prompter.PromptUpgrade(ctx)
		if err != nil {
			return false, err
		}
		if upgraded {
			g.logger.Info(ctx, "user accepted upgrade prompt")
		}
	}

	return false, common.ErrQuotaExceeded
}
