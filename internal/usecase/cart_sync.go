package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrAlreadyMounted = errors.New("cart sync already mounted")

type syncResult struct {
	seq uint64
	err error
}

// CartSync играет роль корневого компонента: следит за корзиной в хранилище и после
// каждого её изменения (кроме первого монтирования) отправляет корзину в
// удалённое хранилище, отражая ход отправки уведомлением.
//
// Все записи уведомлений делает одна горутина цикла событий. Новое изменение
// отменяет запрос в полёте, а ответ с устаревшим номером отбрасывается.
type CartSync struct {
	Store   domain.Store
	Sender  domain.CartSender
	Log     logrus.FieldLogger
	Timeout time.Duration

	qmu     sync.Mutex
	queued  []domain.Cart
	wake    chan struct{}
	results chan syncResult

	mounted     atomic.Bool
	unsubscribe func()
	stop        context.CancelFunc
	done        chan struct{}
	inflight    sync.WaitGroup

	// принадлежат горутине цикла
	initialSkipped bool
	seq            uint64
	cancel         context.CancelFunc
}

func NewCartSync(store domain.Store, sender domain.CartSender, log logrus.FieldLogger) *CartSync {
	return &CartSync{Store: store, Sender: sender, Log: log}
}

// Mount подписывается на хранилище и один раз вычисляет эффект для текущей
// корзины. Первое вычисление всегда пропускается.
func (c *CartSync) Mount(ctx context.Context) error {
	if !c.mounted.CompareAndSwap(false, true) {
		return ErrAlreadyMounted
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	c.wake = make(chan struct{}, 1)
	c.results = make(chan syncResult)
	c.done = make(chan struct{})

	ctx, c.stop = context.WithCancel(ctx)
	c.unsubscribe = c.Store.Subscribe(func(prev, next domain.State) {
		if prev.Cart.Revision != next.Cart.Revision {
			c.enqueue(next.Cart)
		}
	})
	c.enqueue(c.Store.GetState().Cart)

	go c.loop(ctx)
	return nil
}

// Unmount отписывается, отменяет запрос в полёте и дожидается его завершения.
func (c *CartSync) Unmount() {
	if !c.mounted.Load() || c.done == nil {
		return
	}
	c.unsubscribe()
	c.stop()
	<-c.done
}

func (c *CartSync) enqueue(cart domain.Cart) {
	c.qmu.Lock()
	c.queued = append(c.queued, cart)
	c.qmu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *CartSync) drain() []domain.Cart {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	out := c.queued
	c.queued = nil
	return out
}

func (c *CartSync) loop(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			if c.cancel != nil {
				c.cancel()
			}
			c.inflight.Wait()
			return
		case <-c.wake:
			for _, cart := range c.drain() {
				c.onCartChanged(ctx, cart)
			}
		case r := <-c.results:
			c.settle(r)
		}
	}
}

func (c *CartSync) onCartChanged(ctx context.Context, cart domain.Cart) {
	if !c.initialSkipped {
		c.initialSkipped = true
		return
	}

	c.Store.Dispatch(domain.ShowNotification{Notification: domain.PendingNotification()})

	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq

	var reqCtx context.Context
	var cancel context.CancelFunc
	if c.Timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.Timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}
	c.cancel = cancel

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer cancel()
		err := c.Sender.SendCart(reqCtx, cart)
		select {
		case c.results <- syncResult{seq: seq, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *CartSync) settle(r syncResult) {
	log := c.Log.WithField("seq", r.seq)
	if r.seq != c.seq {
		log.Debug("dropping stale cart sync result")
		return
	}
	if r.err != nil {
		log.WithError(r.err).Warn("cart sync failed")
		c.Store.Dispatch(domain.ShowNotification{Notification: domain.ErrorNotification()})
		return
	}
	log.Debug("cart synced")
	c.Store.Dispatch(domain.ShowNotification{Notification: domain.SuccessNotification()})
}
