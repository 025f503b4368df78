package enrich

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"rollbardemo/internal/rollbar"
)

// Policy selects how the enrichment hook treats non-error payloads.
type Policy string

// Supported enrichment policies.
const (
	// PolicyErrorsOnly vetoes every payload whose level is not "error" and
	// attaches the configured person to surviving payloads.
	PolicyErrorsOnly Policy = "errors_only"
	// PolicyPassThrough enriches every payload regardless of level and never
	// overwrites a caller-supplied person.
	PolicyPassThrough Policy = "pass_through"
)

// Valid reports whether the policy is supported.
// Params: none.
// Returns: true for supported policies.
func (p Policy) Valid() bool {
	switch p {
	case PolicyErrorsOnly, PolicyPassThrough:
		return true
	default:
		return false
	}
}

// PersonInfo identifies the subject attached to enriched payloads.
// ID is required; Tenant is optional.
type PersonInfo struct {
	ID     string
	Tenant string
}

const frameworkMarker = "oreore_framework 1.0"

// Enricher mutates outgoing payloads with process-wide context.
// One enricher serves every payload of the process; it holds no mutable state,
// so the hook is safe for concurrent invocations.
type Enricher struct {
	policy Policy
	person PersonInfo
	logger *slog.Logger
}

// New builds an enricher.
// Params: policy veto policy; person payload subject; logger hook diagnostics.
// Returns: enricher instance or validation error.
func New(policy Policy, person PersonInfo, logger *slog.Logger) (*Enricher, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("unsupported policy %q", policy)
	}
	if strings.TrimSpace(person.ID) == "" {
		return nil, fmt.Errorf("person id is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Enricher{
		policy: policy,
		person: person,
		logger: logger,
	}, nil
}

// Hook returns the payload hook to register on the reporting client.
// Params: none.
// Returns: hook closure bound to this enricher.
func (e *Enricher) Hook() rollbar.PayloadHook {
	return func(payload map[string]any, _ map[string]any) (map[string]any, bool) {
		return e.apply(payload)
	}
}

// apply enriches one payload envelope or vetoes it.
// Under errors_only, non-error payloads are dropped before any mutation.
// A payload without a data map is a caller contract violation; the write
// panics and the client's hook harness drops that single payload.
// Params: payload envelope holding a data map.
// Returns: the mutated payload and delivery flag.
func (e *Enricher) apply(payload map[string]any) (map[string]any, bool) {
	data, _ := payload["data"].(map[string]any)

	if e.policy == PolicyErrorsOnly {
		level, _ := data["level"].(string)
		if level != "error" {
			e.logger.Debug("not an error, ignoring", slog.String("level", level))
			return nil, false
		}

		if class, message, found := exceptionDetails(data); found {
			e.logger.Info("enriching exception payload",
				slog.String("class", class),
				slog.String("message", message),
			)
		}

		person := map[string]any{"id": e.person.ID}
		if e.person.Tenant != "" {
			person["tenant"] = e.person.Tenant
		}
		data["person"] = person
	}

	existing, _ := data["custom"].(map[string]any)
	data["custom"] = mergeCustom(customData(), existing)

	data["foo_key"] = map[string]any{
		"bar_key": "bar_value",
		"baz_key": []any{int64(1), int64(2), int64(3)},
		"deep": map[string]any{
			"nested": map[string]any{
				"structure": true,
			},
		},
	}
	data["empty_value"] = nil
	data["base_model_custom"] = map[string]any{
		"the_model": defaultMetadata().Values(),
	}
	data["framework"] = frameworkMarker

	return payload, true
}

// exceptionDetails extracts the exception class and message from a trace body.
// Missing substructures degrade to empty values rather than failing.
// Params: data payload data map.
// Returns: class, message, and whether an exception map was present.
func exceptionDetails(data map[string]any) (string, string, bool) {
	body, _ := data["body"].(map[string]any)
	trace, _ := body["trace"].(map[string]any)
	exception, _ := trace["exception"].(map[string]any)
	if len(exception) == 0 {
		return "", "", false
	}

	class, _ := exception["class"].(string)
	message, _ := exception["message"].(string)
	return class, message, true
}

// customData builds the per-payload base custom map.
// Params: none.
// Returns: fresh map with a new trace id and the demo feature flags.
func customData() map[string]any {
	return map[string]any{
		"trace_id":      newTraceID(),
		"feature_flags": []any{"feature_1", "feature_2"},
	}
}

// mergeCustom overlays caller custom values over generated defaults.
// The merge is shallow: a caller value replaces the default wholesale per key.
// Params: base generated defaults, mutated in place; overlay caller map, may be nil.
// Returns: merged map.
func mergeCustom(base, overlay map[string]any) map[string]any {
	for key, value := range overlay {
		base[key] = value
	}
	return base
}

// newTraceID generates the per-payload correlation identifier.
// Params: none.
// Returns: 32 character lowercase hex token.
func newTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
