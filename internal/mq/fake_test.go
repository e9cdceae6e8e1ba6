package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	mu sync.Mutex

	passiveErr error
	declareErr map[string]error
	bindErr    error
	consumeErr error

	passive   []string
	declared  []string
	autoDel   []bool
	bound     [][2]string
	consumed  []string
	prefetch  int
	qosGlobal bool
	published []amqp.Publishing
	keys      []string
	closed    int

	streams map[string]chan amqp.Delivery
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{streams: map[string]chan amqp.Delivery{}, declareErr: map[string]error{}}
}

func (f *fakeChannel) stream(queue string) chan amqp.Delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.streams[queue]
	if !ok {
		s = make(chan amqp.Delivery, 16)
		f.streams[queue] = s
	}
	return s
}

func (f *fakeChannel) ExchangeDeclarePassive(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.passive = append(f.passive, name+"/"+kind)
	return f.passiveErr
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if err := f.declareErr[name]; err != nil {
		return amqp.Queue{}, err
	}
	f.declared = append(f.declared, name)
	f.autoDel = append(f.autoDel, autoDelete)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound = append(f.bound, [2]string{name, key})
	return nil
}

func (f *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	f.prefetch = prefetchCount
	f.qosGlobal = global
	return nil
}

func (f *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	f.consumed = append(f.consumed, queue)
	return f.stream(queue), nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, exchange+":"+key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed++
	return nil
}

// ackRecorder 按调用顺序记录确认结果
type ackRecorder struct {
	mu     sync.Mutex
	events []string
}

func (a *ackRecorder) record(e string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *ackRecorder) Events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.events...)
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.record("ack")
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.record("nack")
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	if requeue {
		a.record("reject:requeue")
	} else {
		a.record("reject:drop")
	}
	return nil
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: []byte(body)}
}
