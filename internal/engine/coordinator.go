package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dailyjobs/search-service/internal/db"
	"dailyjobs/search-service/internal/model"
	"dailyjobs/search-service/internal/notify"
	"dailyjobs/search-service/internal/query"
	"dailyjobs/search-service/internal/telemetry"
)

// Storage is the persistence collaborator the engine consumes.
type Storage interface {
	LoadActiveConfigs(ctx context.Context) ([]model.SearchConfig, error)
	LoadConfig(ctx context.Context, configID string) (*model.SearchConfig, error)
	LoadUser(ctx context.Context, userID string) (*model.UserCredentialView, error)
	AppendPostings(ctx context.Context, userID, configID string, postings []model.JobPosting) error
	UpdateLastRun(ctx context.Context, configID string, t time.Time) error
	DeletePostings(ctx context.Context, userID string) error
}

// ResultSource produces a run's postings. The boolean reports whether they
// came from a real provider search rather than the synthetic fallback.
type ResultSource interface {
	Fetch(ctx context.Context, user model.UserCredentialView, cfg model.SearchConfig, q query.Query) ([]model.JobPosting, bool)
}

// MailSender dispatches a rendered notification.
type MailSender interface {
	Configured() bool
	Send(ctx context.Context, fromAddr, toAddr, subject, htmlBody string) error
}

// RunOutcome summarises one completed run cycle.
type RunOutcome struct {
	Persisted  int
	Notified   bool
	RealSearch bool
}

// Coordinator executes one search cycle for one configuration:
// build query, fetch (live or fallback), persist, notify.
type Coordinator struct {
	store  Storage
	source ResultSource
	mail   MailSender
	lock   *db.RunLock // optional; nil disables run locking
	log    *zap.Logger
	now    func() time.Time
}

// NewCoordinator constructs a Coordinator. mail and lock may be nil.
func NewCoordinator(store Storage, source ResultSource, mail MailSender, lock *db.RunLock, log *zap.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		source: source,
		mail:   mail,
		lock:   lock,
		log:    log,
		now:    time.Now,
	}
}

// RunCycle runs search, persist and notify for configID. A config that is
// missing or inactive by the time the trigger fires completes as a no-op,
// not an error. Notification failure is logged and does not fail the run.
func (c *Coordinator) RunCycle(ctx context.Context, configID string) (RunOutcome, error) {
	return c.run(ctx, configID, false)
}

// RunTest behaves like RunCycle but first clears the user's previously
// persisted postings, so repeated manual test runs do not accumulate.
func (c *Coordinator) RunTest(ctx context.Context, configID string) (RunOutcome, error) {
	return c.run(ctx, configID, true)
}

func (c *Coordinator) run(ctx context.Context, configID string, clearFirst bool) (RunOutcome, error) {
	telemetry.RunsStarted.Inc()

	cfg, err := c.store.LoadConfig(ctx, configID)
	if err != nil {
		telemetry.RunFailures.Inc()
		return RunOutcome{}, fmt.Errorf("load config %s: %w", configID, err)
	}
	if cfg == nil || !cfg.IsActive {
		c.log.Debug("skipping run for missing or inactive config", zap.String("config_id", configID))
		return RunOutcome{}, nil
	}

	user, err := c.store.LoadUser(ctx, cfg.UserID)
	if err != nil {
		telemetry.RunFailures.Inc()
		return RunOutcome{}, fmt.Errorf("load user %s: %w", cfg.UserID, err)
	}
	if user == nil {
		c.log.Warn("skipping run, owning user not found",
			zap.String("config_id", cfg.ID), zap.String("user_id", cfg.UserID))
		return RunOutcome{}, nil
	}

	if c.lock != nil {
		ok, err := c.lock.Acquire(ctx, cfg.ID)
		switch {
		case err != nil:
			// The lock is hardening, not a correctness requirement.
			c.log.Warn("run lock unavailable, proceeding without it",
				zap.String("config_id", cfg.ID), zap.Error(err))
		case !ok:
			c.log.Info("previous run still in flight, skipping this fire",
				zap.String("config_id", cfg.ID))
			return RunOutcome{}, nil
		default:
			defer func() {
				if err := c.lock.Release(context.WithoutCancel(ctx), cfg.ID); err != nil {
					c.log.Warn("releasing run lock failed", zap.String("config_id", cfg.ID), zap.Error(err))
				}
			}()
		}
	}

	q := query.Build(*cfg)
	postings, real := c.source.Fetch(ctx, *user, *cfg, q)
	if !real {
		telemetry.FallbackRuns.Inc()
	}

	if clearFirst {
		if err := c.store.DeletePostings(ctx, user.ID); err != nil {
			telemetry.RunFailures.Inc()
			return RunOutcome{RealSearch: real}, fmt.Errorf("clear previous postings: %w", err)
		}
	}

	if len(postings) > 0 {
		if err := c.store.AppendPostings(ctx, user.ID, cfg.ID, postings); err != nil {
			telemetry.RunFailures.Inc()
			return RunOutcome{RealSearch: real}, fmt.Errorf("persist postings: %w", err)
		}
		telemetry.PostingsPersisted.Add(float64(len(postings)))
	}

	if err := c.store.UpdateLastRun(ctx, cfg.ID, c.now()); err != nil {
		// The batch is already committed; report the failure but keep it.
		telemetry.RunFailures.Inc()
		return RunOutcome{Persisted: len(postings), RealSearch: real},
			fmt.Errorf("update last run: %w", err)
	}

	out := RunOutcome{Persisted: len(postings), RealSearch: real}
	if len(postings) > 0 && user.HasMailCredential() && c.mail != nil && c.mail.Configured() {
		msg := notify.Compose(postings, cfg.Name)
		if err := c.mail.Send(ctx, user.Email, user.Recipient(), msg.Subject, msg.Body); err != nil {
			telemetry.NotificationFailures.Inc()
			c.log.Error("notification send failed",
				zap.String("config_id", cfg.ID), zap.String("to", user.Recipient()), zap.Error(err))
		} else {
			telemetry.NotificationsSent.Inc()
			out.Notified = true
		}
	}

	c.log.Info("run cycle complete",
		zap.String("config_id", cfg.ID),
		zap.Int("persisted", out.Persisted),
		zap.Bool("notified", out.Notified),
		zap.Bool("real_search", out.RealSearch))
	return out, nil
}
