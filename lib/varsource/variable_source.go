// Package varsource resolves credential references such as
// "${env:EVCS_SMOKE_PASSWORD}" or "${aws:ssm:/evcs/staging/admin-password}"
// into their values, so config files never hold the secret itself.
package varsource

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	prefixAWSSecretsManager = "aws:secretsmanager:"
	prefixAWSSSM            = "aws:ssm:"
	prefixEnv               = "env:"
	prefixFile              = "file:"
)

// upstream fetches the value behind one reference, prefix already stripped.
type upstream interface {
	Lookup(ctx context.Context, ref string) (string, error)
}

// Source resolves references against a set of upstreams keyed by prefix.
type Source struct {
	prefixes  []string
	upstreams map[string]upstream
}

type Option func(s *Source)

func WithEnv() Option {
	return func(s *Source) { s.upstreams[prefixEnv] = envUpstream{} }
}

func WithFile() Option {
	return func(s *Source) { s.upstreams[prefixFile] = fileUpstream{} }
}

func WithAWSSSM() Option {
	return func(s *Source) { s.upstreams[prefixAWSSSM] = &ssmUpstream{} }
}

func WithAWSSecretsManager() Option {
	return func(s *Source) { s.upstreams[prefixAWSSecretsManager] = &secretsManagerUpstream{} }
}

// New builds a Source; without options every upstream is enabled.
func New(opts ...Option) *Source {
	if len(opts) == 0 {
		opts = []Option{WithEnv(), WithFile(), WithAWSSSM(), WithAWSSecretsManager()}
	}

	s := &Source{upstreams: make(map[string]upstream)}
	for _, opt := range opts {
		opt(s)
	}
	for prefix := range s.upstreams {
		s.prefixes = append(s.prefixes, prefix)
	}
	// longest prefix first, so "aws:ssm:" wins over any shorter match
	sort.Slice(s.prefixes, func(i, j int) bool { return len(s.prefixes[i]) > len(s.prefixes[j]) })

	return s
}

// Resolve returns value unchanged unless it has the form ${prefix:ref}.
// A leading backslash escapes the reference: `\${env:X}` yields `${env:X}`.
func (s *Source) Resolve(ctx context.Context, value string) (string, error) {
	if strings.HasPrefix(value, `\${`) {
		return strings.TrimPrefix(value, `\`), nil
	}
	if !(strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}")) {
		return value, nil
	}

	ref := strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}")
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(ref, prefix) {
			resolved, err := s.upstreams[prefix].Lookup(ctx, strings.TrimPrefix(ref, prefix))
			if err != nil {
				return "", fmt.Errorf("failed to resolve %q: %w", value, err)
			}
			return resolved, nil
		}
	}

	return "", fmt.Errorf("no source available for %q", value)
}

// ResolveAll resolves each field in place. Names are only used in errors.
func (s *Source) ResolveAll(ctx context.Context, fields map[string]*string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		resolved, err := s.Resolve(ctx, *fields[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*fields[name] = resolved
	}
	return nil
}

// splitOptions parses "secret-id,key=value,key2=value2".
func splitOptions(ref string) (string, map[string]string, error) {
	parts := strings.Split(ref, ",")
	opts := make(map[string]string)
	for _, part := range parts[1:] {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return "", nil, fmt.Errorf("invalid option %q, want key=value", part)
		}
		opts[kv[0]] = kv[1]
	}
	return parts[0], opts, nil
}
