package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/logging"
	"github.com/mbradley/nowplayin/internal/ports"
	"github.com/sourcegraph/conc/iter"
)

const (
	DefaultShutdownTimeout = 2 * time.Second

	MessageStarting          = "Starting..."
	MessageUpdating          = "Updating status..."
	MessageClearing          = "Clearing status..."
	MessageNoWorkspaces      = "No workspaces configured"
	MessageSourceNotRunning  = "source not running"
	MessageChangedExternally = "status changed externally"
	MessageAllFailed         = "all workspaces failed"
	messageSomeFailed        = "%d workspace(s) had errors"

	errorNoCredential = "no credential"
)

type SyncEngineOptions struct {
	Workspaces ports.WorkspaceRepository
	Secrets    ports.SecretStore
	Backend    ports.StatusBackend
	Probe      ports.MediaProbe
	Settings   ports.Settings
	Metrics    ports.SyncMetrics
	Logger     *log.Logger
	// Marker is the status emoji that identifies statuses set by this engine.
	Marker          string
	ShutdownTimeout time.Duration
}

// SyncEngine mirrors the local player into every configured workspace.
// At most one polling loop runs at a time; all session state is guarded by mu.
type SyncEngine struct {
	workspaces      ports.WorkspaceRepository
	secrets         ports.SecretStore
	backend         ports.StatusBackend
	probe           ports.MediaProbe
	settings        ports.Settings
	metrics         ports.SyncMetrics
	logger          *log.Logger
	marker          string
	shutdownTimeout time.Duration

	mu        sync.Mutex
	session   session
	cancel    context.CancelFunc
	done      chan struct{}
	listeners []func(Snapshot)
}

type session struct {
	id                string
	running           bool
	stopping          bool
	lastApplied       *string
	errors            map[domain.WorkspaceID]string
	owned             map[domain.WorkspaceID]bool
	edited            map[domain.WorkspaceID]bool
	revoked           map[domain.WorkspaceID]bool
	suppressExitClear bool
	track             *domain.Track
	message           string
	workspaces        []domain.Workspace
}

func newSession() session {
	return session{
		errors:  make(map[domain.WorkspaceID]string),
		owned:   make(map[domain.WorkspaceID]bool),
		edited:  make(map[domain.WorkspaceID]bool),
		revoked: make(map[domain.WorkspaceID]bool),
	}
}

type pushOutcome struct {
	id      domain.WorkspaceID
	err     string
	revoked bool
}

func NewSyncEngine(opts SyncEngineOptions) *SyncEngine {
	e := &SyncEngine{
		workspaces:      opts.Workspaces,
		secrets:         opts.Secrets,
		backend:         opts.Backend,
		probe:           opts.Probe,
		settings:        opts.Settings,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
		marker:          opts.Marker,
		shutdownTimeout: opts.ShutdownTimeout,
		session:         newSession(),
	}
	if e.metrics == nil {
		e.metrics = ports.NopSyncMetrics{}
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.marker == "" {
		e.marker = domain.OwnershipMarker
	}
	if e.shutdownTimeout <= 0 {
		e.shutdownTimeout = DefaultShutdownTimeout
	}

	return e
}

// OnChange registers fn to receive a snapshot after every session change.
// fn runs on the goroutine that made the change and must not block.
func (e *SyncEngine) OnChange(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Start begins a new session. It is a no-op while a session is running.
func (e *SyncEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.session.running {
		e.mu.Unlock()
		return nil
	}

	workspaces, err := e.workspaces.List(ctx)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("list workspaces: %w", err)
	}
	if len(workspaces) == 0 {
		e.session.message = MessageNoWorkspaces
		e.mu.Unlock()
		e.notify()
		return domain.ErrNoWorkspacesConfigured
	}

	e.session = newSession()
	e.session.id = uuid.NewString()
	e.session.running = true
	e.session.message = MessageStarting
	e.session.workspaces = workspaces

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	id := e.session.id
	e.mu.Unlock()

	e.metrics.SetRunning(true)
	e.logger.Info("sync started", "session", id, "workspaces", len(workspaces))
	e.notify()

	go e.loop(loopCtx, id, done)
	return nil
}

// Stop cancels the running session and waits for the in-flight tick to finish.
// When clearRemote is set and a non-empty status was applied, every workspace
// still under automatic control is cleared in the background; the returned
// channel closes once that clear is done.
func (e *SyncEngine) Stop(clearRemote bool) <-chan struct{} {
	cleared := make(chan struct{})

	e.mu.Lock()
	if !e.session.running || e.session.stopping {
		e.mu.Unlock()
		close(cleared)
		return cleared
	}
	e.session.stopping = true
	id, cancel, done := e.session.id, e.cancel, e.done
	e.mu.Unlock()

	cancel()
	<-done

	e.mu.Lock()
	if e.session.id != id || !e.session.running {
		e.mu.Unlock()
		close(cleared)
		return cleared
	}

	shouldClear := clearRemote && e.session.lastApplied != nil && *e.session.lastApplied != ""
	edited := make(map[domain.WorkspaceID]bool, len(e.session.edited))
	for wsID := range e.session.edited {
		edited[wsID] = true
	}
	known := e.session.workspaces

	suppress := e.session.suppressExitClear
	e.session = newSession()
	e.session.suppressExitClear = suppress
	e.mu.Unlock()

	e.metrics.SetRunning(false)
	e.logger.Info("sync stopped", "session", id, "clear", shouldClear)
	e.notify()

	if !shouldClear {
		close(cleared)
		return cleared
	}

	go func() {
		defer close(cleared)

		ctx := context.Background()
		workspaces, err := e.workspaces.List(ctx)
		if err != nil {
			e.logger.Warn("list workspaces for clear", "err", err)
			workspaces = known
		}

		targets := make([]domain.Workspace, 0, len(workspaces))
		for _, workspace := range workspaces {
			if !edited[workspace.ID] {
				targets = append(targets, workspace)
			}
		}
		for _, outcome := range e.fanOut(ctx, targets, "") {
			if outcome.err != "" {
				e.logger.Debug("clear on stop failed", "workspace", outcome.id, "err", outcome.err)
			}
		}
	}()

	return cleared
}

// Shutdown stops the session before the process exits. Statuses are cleared
// unless an external edit was seen, and the whole call is bounded by the
// shutdown timeout.
func (e *SyncEngine) Shutdown() {
	e.mu.Lock()
	clearRemote := !e.session.suppressExitClear
	e.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		<-e.Stop(clearRemote)
		close(finished)
	}()

	timer := time.NewTimer(e.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-finished:
	case <-timer.C:
		e.logger.Warn("gave up waiting for status clear", "timeout", e.shutdownTimeout)
	}
}

// Done is closed when the current session's loop has exited, either because
// of Stop or because the loop ended the session itself.
func (e *SyncEngine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return e.done
}

func (e *SyncEngine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *SyncEngine) snapshotLocked() Snapshot {
	s := e.session
	snapshot := Snapshot{
		SessionID:         s.id,
		Running:           s.running,
		Message:           s.message,
		SuppressExitClear: s.suppressExitClear,
		Workspaces:        make([]WorkspaceState, 0, len(s.workspaces)),
		UpdatedAt:         time.Now(),
	}
	if s.track != nil {
		track := *s.track
		snapshot.Track = &track
	}
	if s.lastApplied != nil {
		applied := *s.lastApplied
		snapshot.LastApplied = &applied
	}
	for _, workspace := range s.workspaces {
		snapshot.Workspaces = append(snapshot.Workspaces, WorkspaceState{
			ID:     workspace.ID,
			Name:   workspace.Name,
			Error:  s.errors[workspace.ID],
			Owned:  s.owned[workspace.ID],
			Edited: s.edited[workspace.ID],
		})
	}

	return snapshot
}

func (e *SyncEngine) notify() {
	e.mu.Lock()
	snapshot := e.snapshotLocked()
	listeners := append([]func(Snapshot){}, e.listeners...)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (e *SyncEngine) loop(ctx context.Context, id string, done chan struct{}) {
	defer close(done)

	for {
		if ctx.Err() != nil {
			return
		}
		if halt := e.safeTick(ctx, id); halt {
			e.finish(id)
			return
		}
		if !e.sleep(ctx) {
			return
		}
	}
}

func (e *SyncEngine) safeTick(ctx context.Context, id string) (halt bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("sync tick panicked", "session", id, "panic", r)
			halt = false
		}
	}()

	return e.tick(ctx, id)
}

func (e *SyncEngine) sleep(ctx context.Context) bool {
	timer := time.NewTimer(e.settings.PollInterval())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// finish ends a session the loop decided to end on its own. The user-facing
// message and suppressExitClear survive until the next Start.
func (e *SyncEngine) finish(id string) {
	e.mu.Lock()
	if e.session.id != id || !e.session.running {
		e.mu.Unlock()
		return
	}
	e.session.running = false
	e.session.stopping = false
	e.session.lastApplied = nil
	e.session.track = nil
	cancel := e.cancel
	e.mu.Unlock()

	cancel()
	e.metrics.SetRunning(false)
	e.logger.Info("sync ended", "session", id, "reason", e.Snapshot().Message)
	e.notify()
}

func (e *SyncEngine) tick(ctx context.Context, id string) bool {
	e.metrics.ObserveTick()
	// In-flight network calls finish even after Stop cancels ctx.
	netCtx := context.WithoutCancel(ctx)

	running := e.probe.IsSourceRunning(ctx)
	if ctx.Err() != nil {
		return false
	}
	if !running {
		e.sourceGone(netCtx, id)
		return true
	}

	track, ok := e.probe.ReadCurrent(ctx)
	if ctx.Err() != nil {
		return false
	}
	if !ok {
		e.logger.Debug("could not read current track", "session", id)
		return false
	}
	desired := track.DesiredStatus(e.settings.KeepOnPause())

	workspaces, err := e.workspaces.List(netCtx)
	if err != nil {
		e.logger.Warn("list workspaces", "session", id, "err", err)
		return false
	}

	e.mu.Lock()
	if e.session.id != id {
		e.mu.Unlock()
		return true
	}
	e.session.track = &track
	e.session.workspaces = workspaces
	e.session.prune(workspaces)
	check := e.session.filter(workspaces, func(ws domain.WorkspaceID) bool {
		return e.session.owned[ws] && !e.session.edited[ws] && !e.session.revoked[ws]
	})
	e.mu.Unlock()
	e.notify()

	edited := e.detectExternalEdits(netCtx, id, check)

	e.mu.Lock()
	for _, wsID := range edited {
		e.session.edited[wsID] = true
		e.session.errors[wsID] = MessageChangedExternally
	}
	if len(edited) > 0 && len(e.session.filter(workspaces, e.session.notEdited)) == 0 {
		e.session.suppressExitClear = true
		e.session.message = MessageChangedExternally
		e.mu.Unlock()
		e.logger.Info("status changed externally in every workspace", "session", id)
		return true
	}

	last := e.session.lastApplied
	if last != nil && *last == desired {
		if len(edited) > 0 {
			e.session.message = e.session.aggregate(workspaces)
		}
		e.mu.Unlock()
		if len(edited) > 0 {
			e.notify()
		}
		return false
	}

	targets := e.session.filter(workspaces, func(ws domain.WorkspaceID) bool {
		return !e.session.edited[ws] && !e.session.revoked[ws]
	})
	switch {
	case desired != "":
		e.session.message = MessageUpdating
	case last != nil:
		e.session.message = MessageClearing
	}
	e.mu.Unlock()
	e.notify()

	e.logger.Info("pushing status", "session", id, "status", desired, "workspaces", len(targets))
	outcomes := e.fanOut(netCtx, targets, desired)

	e.mu.Lock()
	for _, outcome := range outcomes {
		if outcome.err == "" {
			delete(e.session.errors, outcome.id)
			if desired != "" {
				e.session.owned[outcome.id] = true
			}
			continue
		}
		e.session.errors[outcome.id] = outcome.err
		if outcome.revoked {
			e.session.revoked[outcome.id] = true
		}
	}
	applied := desired
	e.session.lastApplied = &applied
	e.session.message = e.session.aggregate(workspaces)
	e.mu.Unlock()
	e.notify()

	return false
}

func (e *SyncEngine) sourceGone(ctx context.Context, id string) {
	e.mu.Lock()
	last := e.session.lastApplied
	known := e.session.workspaces
	shouldClear := last != nil && *last != ""
	if shouldClear {
		e.session.message = MessageClearing
	}
	e.mu.Unlock()

	if shouldClear {
		e.notify()

		workspaces, err := e.workspaces.List(ctx)
		if err != nil {
			workspaces = known
		}

		e.mu.Lock()
		targets := e.session.filter(workspaces, func(ws domain.WorkspaceID) bool {
			return !e.session.edited[ws] && !e.session.revoked[ws]
		})
		e.mu.Unlock()

		e.logger.Info("source stopped, clearing status", "session", id, "workspaces", len(targets))
		e.fanOut(ctx, targets, "")
	}

	e.mu.Lock()
	e.session.message = MessageSourceNotRunning
	e.mu.Unlock()
}

func (e *SyncEngine) detectExternalEdits(ctx context.Context, id string, check []domain.Workspace) []domain.WorkspaceID {
	if len(check) == 0 {
		return nil
	}

	mapper := iter.Mapper[domain.Workspace, bool]{MaxGoroutines: len(check)}
	changed := mapper.Map(check, func(workspace *domain.Workspace) bool {
		token, err := e.token(ctx, workspace.ID)
		if err != nil {
			return false
		}
		status, err := e.backend.GetStatus(ctx, token)
		if err != nil {
			e.logger.Debug("read back status", "session", id, "workspace", workspace.ID, "err", err)
			return false
		}
		return status.ChangedExternally(e.marker)
	})

	var edited []domain.WorkspaceID
	for i, workspace := range check {
		if changed[i] {
			e.logger.Info("status changed externally", "session", id, "workspace", workspace.ID)
			edited = append(edited, workspace.ID)
		}
	}
	return edited
}

// fanOut pushes desired to every target concurrently and returns once all calls are done.
func (e *SyncEngine) fanOut(ctx context.Context, targets []domain.Workspace, desired string) []pushOutcome {
	if len(targets) == 0 {
		return nil
	}

	started := time.Now()
	mapper := iter.Mapper[domain.Workspace, pushOutcome]{MaxGoroutines: len(targets)}
	outcomes := mapper.Map(targets, func(workspace *domain.Workspace) pushOutcome {
		return e.push(ctx, *workspace, desired)
	})
	e.metrics.ObserveFanOut(time.Since(started))

	return outcomes
}

func (e *SyncEngine) push(ctx context.Context, workspace domain.Workspace, desired string) pushOutcome {
	op := "set"
	if desired == "" {
		op = "clear"
	}

	token, err := e.token(ctx, workspace.ID)
	if err != nil {
		// A store failure is reported like a missing token; the log tells them apart.
		if errors.Is(err, domain.ErrSecretNotFound) {
			e.logger.Warn("no credential for workspace", "workspace", workspace.ID)
		} else {
			e.logger.Warn("read credential", "workspace", workspace.ID, "err", err)
		}
		e.metrics.ObservePush(op, "no_credential")
		return pushOutcome{id: workspace.ID, err: errorNoCredential}
	}

	if desired == "" {
		err = e.backend.ClearStatus(ctx, token)
	} else {
		err = e.backend.SetStatus(ctx, token, desired)
	}
	if err != nil {
		e.logger.Warn("status push failed", "workspace", workspace.ID, "op", op, "err", err)
		e.metrics.ObservePush(op, outcomeLabel(err))
		return pushOutcome{id: workspace.ID, err: describe(err), revoked: errors.Is(err, domain.ErrUnauthorized)}
	}

	e.metrics.ObservePush(op, "ok")
	return pushOutcome{id: workspace.ID}
}

func (e *SyncEngine) token(ctx context.Context, id domain.WorkspaceID) (string, error) {
	token, err := e.secrets.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrSecretNotFound, id)
	}
	return token, nil
}

func (s *session) filter(workspaces []domain.Workspace, keep func(domain.WorkspaceID) bool) []domain.Workspace {
	filtered := make([]domain.Workspace, 0, len(workspaces))
	for _, workspace := range workspaces {
		if keep(workspace.ID) {
			filtered = append(filtered, workspace)
		}
	}
	return filtered
}

// prune drops per-workspace state of workspaces no longer configured.
func (s *session) prune(workspaces []domain.Workspace) {
	listed := make(map[domain.WorkspaceID]bool, len(workspaces))
	for _, workspace := range workspaces {
		listed[workspace.ID] = true
	}
	for _, state := range []map[domain.WorkspaceID]bool{s.owned, s.edited, s.revoked} {
		for id := range state {
			if !listed[id] {
				delete(state, id)
			}
		}
	}
	for id := range s.errors {
		if !listed[id] {
			delete(s.errors, id)
		}
	}
}

func (s *session) notEdited(id domain.WorkspaceID) bool {
	return !s.edited[id]
}

func (s *session) aggregate(workspaces []domain.Workspace) string {
	failed := 0
	for _, workspace := range workspaces {
		if s.errors[workspace.ID] != "" {
			failed++
		}
	}

	switch {
	case failed == 0:
		return ""
	case failed == len(workspaces):
		return MessageAllFailed
	default:
		return fmt.Sprintf(messageSomeFailed, failed)
	}
}

// describe turns a push failure into the short per-workspace error string.
func describe(err error) string {
	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Short()
	}
	return "request failed"
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
