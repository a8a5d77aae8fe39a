// internal/services/site/config-store/store.go
package configstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/validation"
	"site-builder/internal/models"
)

const ServiceName = "config-store"

// Patch replaces whole top-level fields, keyed by their JSON names.
type Patch map[string]json.RawMessage

// envelope is the stored blob layout: {"state":{"config":{...}},"version":0}.
type envelope struct {
	State struct {
		Config json.RawMessage `json:"config"`
	} `json:"state"`
	Version int `json:"version"`
}

// Store owns the single BusinessConfig. Readers get copies; a change is
// applied in memory only after the persister accepted it.
type Store struct {
	mu        sync.RWMutex
	config    models.BusinessConfig
	persister Persister
	logger    logger.Logger
}

func New(persister Persister, log logger.Logger) *Store {
	return &Store{
		config:    models.DefaultBusinessConfig(),
		persister: persister,
		logger:    log.WithFields(map[string]interface{}{"service": ServiceName}),
	}
}

// Load restores the stored config over the defaults. A missing blob keeps
// the defaults; an unreadable blob is logged and ignored.
func (s *Store) Load(ctx context.Context) error {
	blob, err := s.persister.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		s.logger.Info("no stored config, using defaults", nil)
		return nil
	}
	if err != nil {
		return apperrors.NewPersistenceFailedError("load", err)
	}

	stored, err := decodeEnvelope(blob)
	if err != nil {
		s.logger.Warn("stored config is unreadable, using defaults", map[string]interface{}{"error": err.Error()})
		return nil
	}

	merged, err := mergeFields(models.DefaultBusinessConfig(), stored)
	if err != nil {
		s.logger.Warn("stored config is unreadable, using defaults", map[string]interface{}{"error": err.Error()})
		return nil
	}
	cfg, err := checkDocument(merged)
	if err != nil {
		s.logger.Warn("stored config failed validation, using defaults", map[string]interface{}{"error": err.Error()})
		return nil
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	s.logger.Info("config loaded", map[string]interface{}{"companyName": cfg.CompanyName})
	return nil
}

// Get returns a copy of the current config.
func (s *Store) Get() models.BusinessConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}

// Update replaces each field named in patch. Last writer wins.
func (s *Store) Update(ctx context.Context, patch Patch) (models.BusinessConfig, error) {
	if len(patch) == 0 {
		return s.Get(), nil
	}
	return s.apply(ctx, "update", func(current models.BusinessConfig) ([]byte, error) {
		return mergeFields(current, map[string]json.RawMessage(patch))
	})
}

// UpdateNested merges the fields of raw into the object-typed field key,
// leaving its other sub-fields in place.
func (s *Store) UpdateNested(ctx context.Context, key string, raw json.RawMessage) (models.BusinessConfig, error) {
	if !objectFields[key] {
		return models.BusinessConfig{}, apperrors.NewValidationError(fmt.Sprintf("%s is not an object field", key))
	}

	var updates map[string]json.RawMessage
	if err := json.Unmarshal(raw, &updates); err != nil || updates == nil {
		return models.BusinessConfig{}, apperrors.NewValidationError(fmt.Sprintf("%s: body must be a JSON object", key))
	}

	return s.apply(ctx, "update-nested", func(current models.BusinessConfig) ([]byte, error) {
		fields, err := toFields(current)
		if err != nil {
			return nil, err
		}
		var section map[string]json.RawMessage
		if err := json.Unmarshal(fields[key], &section); err != nil || section == nil {
			section = map[string]json.RawMessage{}
		}
		for k, v := range updates {
			section[k] = v
		}
		merged, err := json.Marshal(section)
		if err != nil {
			return nil, err
		}
		fields[key] = merged
		return json.Marshal(fields)
	})
}

// Reset restores and stores the default config.
func (s *Store) Reset(ctx context.Context) (models.BusinessConfig, error) {
	return s.apply(ctx, "reset", func(models.BusinessConfig) ([]byte, error) {
		return json.Marshal(normalize(models.DefaultBusinessConfig()))
	})
}

// Import merges an exported config over the current one. raw may be a bare
// config object or a stored envelope.
func (s *Store) Import(ctx context.Context, raw []byte) (models.BusinessConfig, error) {
	fields, err := decodeImport(raw)
	if err != nil {
		return models.BusinessConfig{}, apperrors.NewValidationError(err.Error())
	}
	return s.apply(ctx, "import", func(current models.BusinessConfig) ([]byte, error) {
		return mergeFields(current, fields)
	})
}

// Export returns the stored envelope for the current config.
func (s *Store) Export() ([]byte, error) {
	return encodeEnvelope(s.Get())
}

// apply builds a candidate document from the current config, validates it,
// saves it and only then swaps it in.
func (s *Store) apply(ctx context.Context, op string, build func(models.BusinessConfig) ([]byte, error)) (models.BusinessConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := build(s.config.Clone())
	if err != nil {
		return models.BusinessConfig{}, apperrors.NewValidationError(err.Error())
	}
	cfg, err := checkDocument(doc)
	if err != nil {
		return models.BusinessConfig{}, err
	}

	blob, err := encodeEnvelope(cfg)
	if err != nil {
		return models.BusinessConfig{}, apperrors.NewPersistenceFailedError(op, err)
	}
	if err := s.persister.Save(ctx, blob); err != nil {
		s.logger.Error("config save failed", map[string]interface{}{"operation": op, "error": err.Error()})
		return models.BusinessConfig{}, apperrors.NewPersistenceFailedError(op, err)
	}

	s.config = cfg
	s.logger.Info("config updated", map[string]interface{}{"operation": op})
	return cfg.Clone(), nil
}

// checkDocument validates doc against the schema and the cross-field rules
// and decodes it.
func checkDocument(doc []byte) (models.BusinessConfig, error) {
	result, err := validation.ValidateDocument(businessConfigSchema, doc)
	if err != nil {
		return models.BusinessConfig{}, apperrors.NewValidationError(err.Error())
	}
	if !result.Valid {
		return models.BusinessConfig{}, apperrors.NewValidationError(result.Summary())
	}

	var cfg models.BusinessConfig
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return models.BusinessConfig{}, apperrors.NewValidationError(err.Error())
	}

	if cfg.AvailableHours.Start >= cfg.AvailableHours.End {
		return models.BusinessConfig{}, apperrors.NewValidationError(fmt.Sprintf(
			"availableHours: start %s must be before end %s", cfg.AvailableHours.Start, cfg.AvailableHours.End))
	}
	return normalize(cfg), nil
}

// normalize turns nil slices into empty ones so they encode as [].
func normalize(cfg models.BusinessConfig) models.BusinessConfig {
	if cfg.ServicesList == nil {
		cfg.ServicesList = []models.ServiceItem{}
	}
	if cfg.Reviews == nil {
		cfg.Reviews = []models.ReviewItem{}
	}
	if cfg.BlockedDays == nil {
		cfg.BlockedDays = []int{}
	}
	return cfg
}

func toFields(cfg models.BusinessConfig) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(normalize(cfg))
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// mergeFields overlays top-level fields onto base and returns the document.
// A JSON null removes an optional field.
func mergeFields(base models.BusinessConfig, overlay map[string]json.RawMessage) ([]byte, error) {
	fields, err := toFields(base)
	if err != nil {
		return nil, err
	}
	for k, v := range overlay {
		if strings.TrimSpace(string(v)) == "null" {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	return json.Marshal(fields)
}

func encodeEnvelope(cfg models.BusinessConfig) ([]byte, error) {
	var env envelope
	raw, err := json.Marshal(normalize(cfg))
	if err != nil {
		return nil, err
	}
	env.State.Config = raw
	return json.Marshal(env)
}

func decodeEnvelope(blob []byte) (map[string]json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.State.Config) == 0 {
		return nil, errors.New("envelope has no config")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.State.Config, &fields); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fields, nil
}

func decodeImport(raw []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, errors.New("import must be a JSON object")
	}
	if _, ok := fields["state"]; ok {
		return decodeEnvelope(raw)
	}
	return fields, nil
}
