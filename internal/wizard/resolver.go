package wizard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kubera-fin/kubera-loan-backend/internal/mapper"
	"github.com/kubera-fin/kubera-loan-backend/internal/models"
)

// Resolver decides, at wizard startup, where the active draft comes
// from: the backend (a draft application tied to the user's email) or
// the local cache. Remote wins when it answers; any remote failure
// falls back to the cached blob verbatim. The two sources are never
// merged.
type Resolver struct {
	remote Remote
	cache  DraftCache
	log    *zap.Logger
}

// NewResolver creates a resolver over the given sources.
func NewResolver(remote Remote, cache DraftCache, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{remote: remote, cache: cache, log: log}
}

// Resolve produces the active draft for a session. With a known user
// email it queries the backend for draft applications first; without
// one, or when the lookup fails, it falls back to the local cache. A
// missing cache simply yields an empty draft - resolution itself never
// fails.
func (r *Resolver) Resolve(ctx context.Context, email string) *DraftState {
	state := NewDraftState(r.cache)

	if email != "" && r.remote != nil && r.resolveRemote(ctx, email, state) {
		return state
	}

	cached, err := r.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoDraft) {
			r.log.Warn("could not load cached draft", zap.Error(err))
		}
		return state
	}

	state.restore(cached)
	r.log.Info("draft resumed from local cache",
		zap.String("applicationId", state.ApplicationID()))
	return state
}

// resolveRemote attempts the remote path: newest draft for the email,
// full detail fetch, unflatten, registry rebuild. The resumed draft is
// re-persisted locally so the cache tracks it from the first moment.
func (r *Resolver) resolveRemote(ctx context.Context, email string, state *DraftState) bool {
	drafts, err := r.remote.ListApplications(ctx, models.ApplicationFilter{
		Email:  email,
		Status: models.StatusDraft,
	})
	if err != nil {
		r.log.Warn("remote draft lookup failed", zap.Error(err))
		return false
	}
	if len(drafts) == 0 {
		return false
	}

	// List order is newest first.
	detail, err := r.remote.GetApplication(ctx, drafts[0].ID)
	if err != nil {
		r.log.Warn("could not fetch remote draft",
			zap.String("id", drafts[0].ID), zap.Error(err))
		return false
	}

	form := mapper.Unflatten(detail.Application.Flat())
	state.adopt(form, detail.Documents, detail.Application.ID)

	if err := state.persist(ctx); err != nil {
		r.log.Warn("could not cache resumed draft", zap.Error(err))
	}

	r.log.Info("draft resumed from backend",
		zap.String("applicationId", detail.Application.ID),
		zap.Int("documents", len(detail.Documents)))
	return true
}
