package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/carte/internal/repository"
)

var ErrAccessDenied = errors.New("access denied")

// AccessPolicy decides which emails may use the application. An email is
// allowed when its domain is configured or it is an exact allowlist entry.
// With no domains and an empty allowlist everyone is allowed.
type AccessPolicy struct {
	domains   []string
	allowlist repository.AllowlistRepo
}

func NewAccessPolicy(domains []string, allowlist repository.AllowlistRepo) *AccessPolicy {
	normalized := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
		if d != "" {
			normalized = append(normalized, d)
		}
	}
	return &AccessPolicy{domains: normalized, allowlist: allowlist}
}

// Check returns nil when email is allowed and ErrAccessDenied otherwise.
func (p *AccessPolicy) Check(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, d := range p.domains {
		if strings.HasSuffix(email, "@"+d) {
			return nil
		}
	}

	if p.allowlist != nil {
		ok, err := p.allowlist.Contains(ctx, email)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		entries, err := p.allowlist.List(ctx)
		if err != nil {
			return err
		}
		if len(p.domains) == 0 && len(entries) == 0 {
			return nil
		}
	} else if len(p.domains) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w", email, ErrAccessDenied)
}
