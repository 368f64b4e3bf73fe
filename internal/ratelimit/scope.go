package ratelimit

import "strings"

// Scope names a quota bucket.
type Scope string

const (
	// ScopeGlobal counts every request to a resource regardless of caller.
	ScopeGlobal Scope = "global"
	// ScopeCaller counts requests to a resource from one network address.
	ScopeCaller Scope = "caller"
)

// Keyspace builds quota keys for one resource. Keys are prefixed with the
// deployment environment so that environments sharing a store never collide.
type Keyspace struct {
	env      string
	resource string
}

// NewKeyspace creates a keyspace such as "prod:get:user".
func NewKeyspace(env, resource string) Keyspace {
	if env == "" {
		env = "unknown"
	}

	return Keyspace{env: env, resource: resource}
}

// Global returns the key counting all requests to the resource.
func (k Keyspace) Global() string {
	return k.env + ":" + k.resource + ":total"
}

// Caller returns the key counting requests to the resource from address.
func (k Keyspace) Caller(address string) string {
	return k.env + ":" + k.resource + ":caller:" + sanitizeKeyPart(address)
}

// Resource returns the resource name without the environment prefix.
func (k Keyspace) Resource() string {
	return k.resource
}

// sanitizeKeyPart keeps whitespace and control characters out of keys.
func sanitizeKeyPart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}

	return strings.NewReplacer(" ", "_", "\n", "_", "\r", "_", "\t", "_").Replace(s)
}
