package ai

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/talent-screener/internal/logger"
)

// Factory builds a fresh provider generator.
type Factory func(ctx context.Context) (Generator, error)

// Handle is a guarded generator bound to one parameter profile.
type Handle struct {
	gen         Generator
	params      Params
	purpose     Purpose
	fingerprint string
}

// Complete runs prompt through the handle using its bound parameters.
func (h *Handle) Complete(ctx context.Context, system, prompt string) (string, error) {
	if h == nil || h.gen == nil {
		return "", fmt.Errorf("%w: handle is not initialized", ErrGeneration)
	}
	return h.gen.Generate(ctx, Request{System: system, Prompt: prompt, Params: h.params})
}

func (h *Handle) Params() Params { return h.params }

func (h *Handle) Purpose() Purpose { return h.purpose }

func (h *Handle) Fingerprint() string { return h.fingerprint }

// Registry caches handles by configuration fingerprint. It is owned by the
// process that created it; handles never cross registries.
type Registry struct {
	provider string
	model    string
	profiles Profiles
	factory  Factory
	guard    GuardConfig
	logger   *zap.Logger

	mu      sync.Mutex
	handles map[string]*Handle
}

// RegistryConfig describes how handles are created.
type RegistryConfig struct {
	Provider string
	Model    string
	Profiles Profiles
	Guard    GuardConfig
}

func NewRegistry(cfg RegistryConfig, factory Factory, log *zap.Logger) *Registry {
	profiles := cfg.Profiles
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}

	return &Registry{
		provider: cfg.Provider,
		model:    cfg.Model,
		profiles: profiles,
		factory:  factory,
		guard:    cfg.Guard,
		logger:   logger.WithFields(log),
		handles:  make(map[string]*Handle),
	}
}

// Get returns the cached handle for purpose or builds one.
func (r *Registry) Get(ctx context.Context, purpose Purpose) (*Handle, error) {
	params := r.profiles.Get(purpose)
	key, err := Fingerprint(r.provider, r.model, params)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[key]; ok {
		return h, nil
	}

	if r.factory == nil {
		return nil, fmt.Errorf("%w: no generator factory configured", ErrGeneration)
	}

	gen, err := r.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating %s generator: %w", r.provider, err)
	}

	log := logger.WithCommonFields(r.logger, r.provider, gen.Model(), string(purpose))
	h := &Handle{
		gen:         NewGuard(gen, r.guard, log),
		params:      params,
		purpose:     purpose,
		fingerprint: key,
	}
	r.handles[key] = h

	log.Debug("generation handle created", zap.String("fingerprint", key[:12]))

	return h, nil
}

// Len returns the number of cached handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Clear drops every cached handle.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.handles)
}

// Fingerprint identifies a provider/model/params combination.
func Fingerprint(provider, model string, params Params) (string, error) {
	payload, err := json.Marshal(struct {
		Provider string `json:"provider"`
		Model    string `json:"model"`
		Params   Params `json:"params"`
	}{provider, model, params})
	if err != nil {
		return "", fmt.Errorf("marshal fingerprint: %w", err)
	}

	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%x", sum[:]), nil
}
