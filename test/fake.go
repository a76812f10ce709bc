package test

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrFake = errors.New("fake collaborator failure")

// Renderer 记录渲染请求，Fail 为 true 时返回错误
type Renderer struct {
	mu        sync.Mutex
	Fail      bool
	Templates []string
}

func (r *Renderer) Render(_ context.Context, template string, _ any) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return nil, ErrFake
	}
	r.Templates = append(r.Templates, template)
	return []byte("%PDF-1.7 " + template), nil
}

type Store struct {
	mu      sync.Mutex
	Fail    bool
	Objects map[string][]byte
}

func NewStore() *Store {
	return &Store{Objects: map[string][]byte{}}
}

func (s *Store) Put(_ context.Context, objectName string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrFake
	}
	s.Objects[objectName] = data
	return nil
}

func (s *Store) PresignedGet(_ context.Context, objectName string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Objects[objectName]; !ok {
		return "", ErrFake
	}
	return "https://storage.test/" + objectName + "?ttl=" + ttl.String(), nil
}

type Sent struct {
	Template   string
	Recipients []string
	Data       map[string]any
}

type Notifier struct {
	mu   sync.Mutex
	Fail bool
	Sent []Sent
}

func (n *Notifier) Send(_ context.Context, template string, recipients []string, data map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail {
		return ErrFake
	}
	n.Sent = append(n.Sent, Sent{Template: template, Recipients: recipients, Data: data})
	return nil
}

func (n *Notifier) Templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Sent))
	for _, s := range n.Sent {
		out = append(out, s.Template)
	}
	return out
}

// Clock 可手动推进的时钟
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now.UTC()}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
