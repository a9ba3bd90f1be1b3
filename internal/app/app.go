package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"versekeep/internal/review"
	"versekeep/internal/state"
	"versekeep/internal/telemetry"
	"versekeep/internal/ui"
	"versekeep/internal/verse"

	"github.com/google/uuid"
)

const guideMD = `# versekeep

Work through one verse at a time. The scope narrows by mode:
category, new, missed, favorite, recent, the three turn tracks,
or pending (not yet memorized).

| key | action |
| --- | --- |
| space | show or hide the passage |
| enter | mark the verse reviewed |
| b | browse completed verses |
| f / n / w / u | toggle favorite, new, missed, not-memorized |
| m / o / t | cycle mode, ordering, theme |
| r | reset progress |
`

var _ ui.Controller = (*App)(nil)

type App struct {
	cfg Config

	logger  *telemetry.JSONLogger
	store   *state.SQLiteStore
	reducer *review.Reducer
	journal *review.Journal
	session *review.Session
	view    *ui.Root

	sessionID string

	mu       sync.Mutex
	verses   []verse.Verse
	settings review.Settings
	schedule review.Schedule
	theme    string
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"), logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		reducer:   review.NewReducer(store, logger, 0),
		journal:   review.NewJournal(store, logger),
		sessionID: uuid.NewString(),
		theme:     cfg.Theme,
	}

	a.loadVerses(ctx)
	a.loadAppState(ctx)

	view := ui.New(ui.Options{ASCIIOnly: cfg.ASCIIOnly, Debug: cfg.Debug, Variant: a.theme})
	a.view = view
	a.session = review.NewSession(a.reducer, a.journal, review.SessionOptions{
		Logger: logger,
		Flash:  view.FlashStatus,
	})
	view.SetController(a)
	view.SetGuide(guideMD)
	return a, nil
}

// loadVerses restores the stored verse list, bootstrapping from the seed
// directory on first run. A seed failure leaves the list empty; the app
// still starts.
func (a *App) loadVerses(ctx context.Context) {
	raw := a.store.Get(ctx, state.KeyVerses)
	var verses []verse.Verse
	if err := json.Unmarshal(raw, &verses); err != nil {
		a.logger.Error("verses.decode_failed", map[string]any{"error": err.Error()})
	}
	if len(verses) > 0 {
		a.verses = verses
		return
	}

	seeded, err := verse.NewSeedLoader().Load(a.cfg.SeedDir)
	if err != nil {
		a.logger.Warn("verses.seed_failed", map[string]any{"dir": a.cfg.SeedDir, "error": err.Error()})
		return
	}
	if len(seeded) == 0 {
		return
	}
	if err := a.store.Set(ctx, state.KeyVerses, seeded); err != nil {
		a.logger.Error("verses.seed_persist_failed", map[string]any{"error": err.Error()})
	}
	a.logger.Info("verses.seeded", map[string]any{"dir": a.cfg.SeedDir, "count": len(seeded)})
	a.verses = seeded
}

func (a *App) loadAppState(ctx context.Context) {
	a.settings = review.DefaultSettings()
	raw := a.store.Get(ctx, state.KeyLastAppState)
	var stored review.Settings
	if err := json.Unmarshal(raw, &stored); err == nil && stored.Mode != "" {
		if _, err := review.ParseMode(string(stored.Mode)); err != nil {
			a.logger.Warn("appstate.mode_unknown", map[string]any{"mode": string(stored.Mode)})
		} else {
			a.settings = stored
		}
	}
	if a.settings.Order != "" {
		if _, err := review.ParseOrder(string(a.settings.Order)); err != nil {
			a.logger.Warn("appstate.order_unknown", map[string]any{"order": string(a.settings.Order)})
			a.settings.Order = ""
		}
	}
	if a.settings.CompletedOrder != "" {
		if _, err := review.ParseCompletedOrder(string(a.settings.CompletedOrder)); err != nil {
			a.logger.Warn("appstate.completed_order_unknown", map[string]any{"order": string(a.settings.CompletedOrder)})
			a.settings.CompletedOrder = ""
		}
	}
	a.settings.Normalize()

	var theme string
	if err := json.Unmarshal(a.store.Get(ctx, state.KeyTheme), &theme); err == nil && theme != "" {
		for _, v := range ui.ThemeVariants() {
			if v == theme {
				a.theme = theme
				break
			}
		}
	}

	var sched review.Schedule
	if err := json.Unmarshal(a.store.Get(ctx, state.KeyTurnSchedule), &sched); err != nil {
		a.logger.Warn("appstate.schedule_decode_failed", map[string]any{"error": err.Error()})
	}
	a.schedule = sched
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"session": a.sessionID,
		"verses":  len(a.verses),
		"mode":    string(a.settings.Mode),
	})

	a.mu.Lock()
	if err := a.session.Configure(a.enriched(), a.settings); err != nil {
		a.logger.Error("session.configure_failed", map[string]any{"error": err.Error()})
		a.settings = review.DefaultSettings()
		if err := a.session.Configure(a.enriched(), a.settings); err != nil {
			a.mu.Unlock()
			return err
		}
	}
	a.refreshLocked()
	a.mu.Unlock()

	go func() {
		<-ctx.Done()
		a.view.Stop()
	}()
	return a.view.Run()
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.reducer.Close(ctx); err != nil {
		a.logger.Error("reducer.close_failed", map[string]any{"error": err.Error()})
	}
	_ = a.store.Close()
	a.logger.Info("app.stop", map[string]any{"session": a.sessionID})
	_ = a.logger.Close()
}

func (a *App) enriched() []verse.Enriched {
	return verse.Enrich(a.verses, a.reducer.Snapshot())
}

// refreshLocked recomputes the advisory daily goal and pushes a fresh
// snapshot to the view. Callers hold a.mu.
func (a *App) refreshLocked() {
	now := time.Now()
	items := a.enriched()
	a.session.SetDailyProgress(review.DailyGoal(items, a.settings, a.schedule, a.journal.Snapshot(), now))

	st := ui.ReviewState{
		ModeLabel:  a.settings.Mode.Label(),
		OrderLabel: string(a.settings.Order),
		ThemeName:  a.theme,
		ShowAnswer: a.session.ShowingAnswer(),
		Browsing:   a.session.Browsing(),
		CanBrowse:  a.session.CanBrowse(),
		Index:      a.session.Index(),
	}

	stats := a.session.Stats()
	st.Total = stats.Total
	st.Reviewed = stats.Reviewed
	st.TodayCount = stats.TodayCount
	st.Remaining = stats.Remaining
	st.SessionCompleted = stats.SessionCompleted
	st.TotalCompleted = stats.TotalCompleted

	goal := a.session.DailyProgress()
	st.Goal = goal.Goal
	st.CompletedToday = goal.CompletedToday

	cur, ok := a.session.Current()
	if !ok {
		st.Empty = true
	} else {
		st.Seq = cur.Seq
		st.Title = cur.Title
		st.Reference = cur.Reference
		st.Body = cur.Body
		st.Category = cur.Category
		st.IsFavorite = cur.IsFavorite
		st.IsNew = cur.IsNew
		st.IsWrong = cur.IsWrong
		st.IsUnmemorized = cur.IsUnmemorized
		if days, reviewed := cur.DaysSinceReview(now); reviewed {
			switch days {
			case 0:
				st.DaysAgo = "today"
			case 1:
				st.DaysAgo = "1 day ago"
			default:
				st.DaysAgo = fmt.Sprintf("%d days ago", days)
			}
		}
	}

	a.view.SetReviewState(st)
	a.view.SetTurnPromptOpen(a.session.TurnCompleted())
}

func (a *App) persistAppStateLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.store.Set(ctx, state.KeyLastAppState, a.settings); err != nil {
		a.logger.Error("appstate.persist_failed", map[string]any{"error": err.Error()})
	}
}

func (a *App) OnToggleAnswer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.ToggleAnswer()
	a.refreshLocked()
}

func (a *App) OnAdvance() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Advance()
	if a.session.Stats().Remaining == 0 {
		if err := a.session.Reload(a.enriched(), a.reducer.Version()); err != nil {
			a.logger.Error("session.reload_failed", map[string]any{"error": err.Error()})
		}
	}
	a.refreshLocked()
}

func (a *App) OnToggleBrowse() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.ToggleBrowse()
	a.refreshLocked()
}

func (a *App) OnBrowseNext() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.BrowseNext()
	a.refreshLocked()
}

func (a *App) OnBrowsePrev() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.BrowsePrev()
	a.refreshLocked()
}

func (a *App) toggleFlag(build func(verse.Status) verse.Patch) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur, ok := a.session.Current()
	if !ok || a.session.Browsing() {
		return
	}
	a.session.UpdateInPlace(build(cur.Status))
	a.refreshLocked()
}

func (a *App) OnToggleFavorite() {
	a.toggleFlag(func(s verse.Status) verse.Patch {
		return verse.Patch{IsFavorite: verse.Bool(!s.IsFavorite)}
	})
}

func (a *App) OnToggleNew() {
	a.toggleFlag(func(s verse.Status) verse.Patch {
		return verse.Patch{IsNew: verse.Bool(!s.IsNew)}
	})
}

func (a *App) OnToggleWrong() {
	a.toggleFlag(func(s verse.Status) verse.Patch {
		return verse.Patch{IsWrong: verse.Bool(!s.IsWrong)}
	})
}

func (a *App) OnToggleUnmemorized() {
	a.toggleFlag(func(s verse.Status) verse.Patch {
		return verse.Patch{IsUnmemorized: verse.Bool(!s.IsUnmemorized)}
	})
}

func (a *App) OnCycleMode() {
	a.mu.Lock()
	defer a.mu.Unlock()
	modes := review.Modes()
	next := modes[0]
	for i, m := range modes {
		if m == a.settings.Mode {
			next = modes[(i+1)%len(modes)]
			break
		}
	}
	a.settings.Mode = next
	if err := a.session.Configure(a.enriched(), a.settings); err != nil {
		a.logger.Error("session.configure_failed", map[string]any{"error": err.Error()})
		return
	}
	a.persistAppStateLocked()
	a.refreshLocked()
}

func (a *App) OnCycleOrder() {
	a.mu.Lock()
	defer a.mu.Unlock()
	orders := review.Orders()
	next := orders[0]
	for i, o := range orders {
		if o == a.settings.Order {
			next = orders[(i+1)%len(orders)]
			break
		}
	}
	a.settings.Order = next
	if err := a.session.Configure(a.enriched(), a.settings); err != nil {
		a.logger.Error("session.configure_failed", map[string]any{"error": err.Error()})
		return
	}
	a.persistAppStateLocked()
	a.refreshLocked()
}

func (a *App) OnCycleTheme() {
	a.mu.Lock()
	defer a.mu.Unlock()
	variants := ui.ThemeVariants()
	next := variants[0]
	for i, v := range variants {
		if v == a.theme {
			next = variants[(i+1)%len(variants)]
			break
		}
	}
	a.theme = next
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.store.Set(ctx, state.KeyTheme, a.theme); err != nil {
		a.logger.Error("theme.persist_failed", map[string]any{"error": err.Error()})
	}
	a.refreshLocked()
}

func (a *App) OnReset(scope string, confirm bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if scope == "reviewLog" {
		if err := a.journal.Clear(confirm); err != nil {
			a.view.FlashStatus("reset refused: " + err.Error())
			return
		}
		a.view.FlashStatus("Review statistics cleared")
		a.refreshLocked()
		return
	}

	ids := make([]string, 0, len(a.verses))
	for _, v := range a.verses {
		ids = append(ids, v.ID)
	}
	if err := a.reducer.Reset(review.ResetScope(scope), ids); err != nil {
		a.view.FlashStatus("reset failed: " + err.Error())
		return
	}
	if err := a.session.Reload(a.enriched(), a.reducer.Version()); err != nil {
		a.logger.Error("session.reload_failed", map[string]any{"error": err.Error()})
	}
	a.view.FlashStatus("Progress reset")
	a.refreshLocked()
}

func (a *App) OnTurnAcknowledged() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.AcknowledgeTurnCompleted()
	a.refreshLocked()
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", map[string]any{"session": a.sessionID})
}

// MarkWrong flags a verse as missed outside the session cursor, for the
// recitation self-test surface. The session reloads so a wrong-mode scope
// picks the verse up immediately.
func (a *App) MarkWrong(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reducer.Update(id, verse.Patch{IsWrong: verse.Bool(true)})
	if err := a.session.Reload(a.enriched(), a.reducer.Version()); err != nil {
		a.logger.Error("session.reload_failed", map[string]any{"error": err.Error()})
	}
	a.refreshLocked()
}
