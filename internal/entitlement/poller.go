package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

// State — состояние поллера подтверждения оплаты.
type State int

const (
	// StateIdle — поллинг не запускался.
	StateIdle State = iota
	// StatePolling — идёт периодическая проверка статуса.
	StatePolling
	// StateConfirmed — премиум подтверждён, поллинг остановлен.
	StateConfirmed
	// StateStopped — поллинг остановлен без подтверждения
	// (отмена, истечение max_wait, завершение контекста).
	StateStopped
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateConfirmed:
		return "confirmed"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// ErrAlreadyPolling возвращается при повторном Start без остановки.
var ErrAlreadyPolling = errors.New("poller is already running")

// Checker — подмножество Reconciler, нужное поллеру.
type Checker interface {
	Refresh(ctx context.Context, email string) error
	Evaluate(ctx context.Context, email string) models.PremiumStatus
}

// Poller периодически перепроверяет премиум-статус, пока пользователь
// завершает оплату на внешней странице. Явная машина состояний
// idle → polling → (confirmed | stopped); остановка отменяет контекст
// запущенных обновлений, поздние результаты отбрасываются.
type Poller struct {
	checker     Checker
	interval    time.Duration
	maxWait     time.Duration
	log         *slog.Logger
	onConfirmed func(email string)

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	done    chan struct{}
	session string
}

// NewPoller создает Poller. onConfirmed вызывается один раз при первом
// наблюдении подтверждённого премиума; nil допустим.
func NewPoller(cfg config.Entitlement, checker Checker, log *slog.Logger, onConfirmed func(email string)) *Poller {
	return &Poller{
		checker:     checker,
		interval:    cfg.PollInterval,
		maxWait:     cfg.PollMaxWait,
		log:         log,
		onConfirmed: onConfirmed,
		state:       StateIdle,
	}
}

// State возвращает текущее состояние поллера.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start переводит поллер в состояние polling и запускает цикл проверок.
// Возвращает ErrAlreadyPolling, если цикл уже идёт.
func (p *Poller) Start(ctx context.Context, email string) error {
	const op = "entitlement.Poller.Start"

	p.mu.Lock()
	if p.state == StatePolling {
		p.mu.Unlock()
		return ErrAlreadyPolling
	}

	var pollCtx context.Context
	var cancel context.CancelFunc
	if p.maxWait > 0 {
		pollCtx, cancel = context.WithTimeout(ctx, p.maxWait)
	} else {
		pollCtx, cancel = context.WithCancel(ctx)
	}
	p.state = StatePolling
	p.cancel = cancel
	p.done = make(chan struct{})
	p.session = uuid.New().String()
	session := p.session
	done := p.done
	p.mu.Unlock()

	log := p.log.With(
		slog.String("op", op),
		slog.String("poll_session", session),
		slog.String("email", email),
	)
	log.Info("payment confirmation polling started", slog.Duration("interval", p.interval))

	go p.run(pollCtx, email, session, done, log)
	return nil
}

// run — цикл поллинга: немедленная первая проверка, затем тики.
func (p *Poller) run(ctx context.Context, email, session string, done chan struct{}, log *slog.Logger) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if p.tick(ctx, email, session, log) {
		return
	}
	for {
		select {
		case <-ticker.C:
			if p.tick(ctx, email, session, log) {
				return
			}
		case <-ctx.Done():
			p.finish(session, StateStopped)
			log.Info("payment confirmation polling stopped")
			return
		}
	}
}

// tick выполняет одну итерацию: refresh + evaluate. Возвращает true,
// когда цикл должен завершиться.
func (p *Poller) tick(ctx context.Context, email, session string, log *slog.Logger) bool {
	_ = p.checker.Refresh(ctx, email) // ошибка уже залогирована reconciler-ом

	status := p.checker.Evaluate(ctx, email)
	if status != models.StatusGranted {
		return false
	}

	// поздний результат после остановки отбрасывается
	if !p.finish(session, StateConfirmed) {
		return true
	}
	log.Info("premium confirmed")
	if p.onConfirmed != nil {
		p.onConfirmed(email)
	}
	return true
}

// finish переводит поллер в терминальное состояние, если указанная
// сессия всё ещё активна. Возвращает false для устаревшей сессии.
func (p *Poller) finish(session string, next State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != session || p.state != StatePolling {
		return false
	}
	p.state = next
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	return true
}

// Stop отменяет поллинг. Запущенные обновления получают отменённый контекст;
// их результаты игнорируются. Блокируется до выхода цикла.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.state != StatePolling {
		p.mu.Unlock()
		return
	}
	session := p.session
	done := p.done
	p.mu.Unlock()

	if p.finish(session, StateStopped) {
		<-done
	}
}

// CheckNow — ручная проверка статуса ("check status") вне цикла поллинга:
// один refresh + evaluate тем же кодом, что и тик.
func (p *Poller) CheckNow(ctx context.Context, email string) models.PremiumStatus {
	_ = p.checker.Refresh(ctx, email)
	return p.checker.Evaluate(ctx, email)
}
