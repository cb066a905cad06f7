package workflow

import (
	"fmt"

	"github.com/hbenali/procflow/internal/domain/document"
)

// Rule is one entry of the declarative transition table: applying
// Transition to a document of DocType in status From moves it to To,
// provided the actor holds one of Roles.
type Rule struct {
	DocType    document.Type
	From       document.Status
	Transition Transition
	To         document.Status

	// Roles that may apply this transition. Static per (type, transition);
	// there is no per-instance override.
	Roles []document.Role

	// Rejection marks the transition as requiring a non-empty comment.
	Rejection bool

	// ThresholdGated marks an approval whose target depends on the
	// organization's threshold config: at or above the cutoff the engine
	// reroutes to PENDING_DIRECTOR instead of To.
	ThresholdGated bool

	// ChainTrigger marks the transition whose target status generates
	// the successor document in the procurement chain.
	ChainTrigger bool
}

// Allows returns true if the role is in the rule's required-role set
func (r Rule) Allows(role document.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

type ruleKey struct {
	docType    document.Type
	from       document.Status
	transition Transition
}

// RuleSet is the complete transition table for all document types,
// consulted uniformly by the engine.
type RuleSet struct {
	rules map[ruleKey]Rule
}

// Find returns the rule for (docType, from, transition) if one is defined
func (s *RuleSet) Find(docType document.Type, from document.Status, transition Transition) (Rule, bool) {
	r, ok := s.rules[ruleKey{docType, from, transition}]
	return r, ok
}

// PermittedTransitions returns the transitions defined from the given
// status for the given type, in no particular order.
func (s *RuleSet) PermittedTransitions(docType document.Type, from document.Status) []Transition {
	var out []Transition
	for k := range s.rules {
		if k.docType == docType && k.from == from {
			out = append(out, k.transition)
		}
	}
	return out
}

// Builder assembles a RuleSet one document type at a time
type Builder struct {
	rules map[ruleKey]Rule
}

// NewBuilder creates an empty rule set builder
func NewBuilder() *Builder {
	return &Builder{rules: make(map[ruleKey]Rule)}
}

// TypeConfiguration configures the rules of a single document type
type TypeConfiguration struct {
	builder *Builder
	docType document.Type
	from    document.Status
	lastKey ruleKey
}

// Configure starts configuration for a document type
func (b *Builder) Configure(docType document.Type) *TypeConfiguration {
	if !docType.IsValid() {
		panic(fmt.Sprintf("invalid document type: %s", docType))
	}
	return &TypeConfiguration{builder: b, docType: docType}
}

// From sets the status the following Permit calls transition out of
func (c *TypeConfiguration) From(status document.Status) *TypeConfiguration {
	if !status.IsValid() {
		panic(fmt.Sprintf("invalid status: %s", status))
	}
	c.from = status
	return c
}

// Permit registers a transition from the current status
func (c *TypeConfiguration) Permit(transition Transition, to document.Status, roles ...document.Role) *TypeConfiguration {
	return c.add(Rule{
		DocType:    c.docType,
		From:       c.from,
		Transition: transition,
		To:         to,
		Roles:      roles,
	})
}

// PermitGated registers a threshold-gated approval from the current status
func (c *TypeConfiguration) PermitGated(transition Transition, to document.Status, roles ...document.Role) *TypeConfiguration {
	return c.add(Rule{
		DocType:        c.docType,
		From:           c.from,
		Transition:     transition,
		To:             to,
		Roles:          roles,
		ThresholdGated: true,
	})
}

// Reject registers the rejection transition from the current status
func (c *TypeConfiguration) Reject(roles ...document.Role) *TypeConfiguration {
	return c.add(Rule{
		DocType:    c.docType,
		From:       c.from,
		Transition: TransitionReject,
		To:         document.StatusRejected,
		Roles:      roles,
		Rejection:  true,
	})
}

// Chains marks the most recently added rule as the chain trigger for the type
func (c *TypeConfiguration) Chains() *TypeConfiguration {
	r, ok := c.builder.rules[c.lastKey]
	if !ok {
		panic("Chains called before any rule was added")
	}
	r.ChainTrigger = true
	c.builder.rules[c.lastKey] = r
	return c
}

func (c *TypeConfiguration) add(r Rule) *TypeConfiguration {
	if !r.To.IsValid() {
		panic(fmt.Sprintf("invalid target status: %s", r.To))
	}
	key := ruleKey{r.DocType, r.From, r.Transition}
	if _, exists := c.builder.rules[key]; exists {
		panic(fmt.Sprintf("duplicate rule: %s %s %s", r.DocType, r.From, r.Transition))
	}
	c.builder.rules[key] = r
	c.lastKey = key
	return c
}

// Build returns the immutable rule set
func (b *Builder) Build() *RuleSet {
	rules := make(map[ruleKey]Rule, len(b.rules))
	for k, v := range b.rules {
		rules[k] = v
	}
	return &RuleSet{rules: rules}
}
