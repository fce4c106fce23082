package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*categoryFlag)(nil)
	_ pflag.Value = (*severityFlag)(nil)
)

// categoryFlag is an optional category filter. Empty matches everything.
type categoryFlag domain.Category

func (f *categoryFlag) String() string { return string(*f) }
func (f *categoryFlag) Type() string   { return "category" }

func (f *categoryFlag) Set(s string) error {
	c, err := resolveCategory(s)
	if err != nil {
		return err
	}
	*f = categoryFlag(c)
	return nil
}

func (f categoryFlag) matches(c domain.Category) bool {
	return f == "" || domain.Category(f) == c
}

// severityFlag is an optional severity filter. Empty matches everything.
type severityFlag domain.Severity

func (f *severityFlag) String() string { return string(*f) }
func (f *severityFlag) Type() string   { return "severity" }

func (f *severityFlag) Set(s string) error {
	switch v := domain.Severity(strings.ToLower(s)); v {
	case domain.SeverityBalanced, domain.SeverityMild, domain.SeverityModerate, domain.SeveritySevere:
		*f = severityFlag(v)
		return nil
	}
	return fmt.Errorf("severity %q (expected balanced, mild, moderate or severe): %w", s, domain.ErrInvalidArgument)
}

func (f severityFlag) matches(s domain.Severity) bool {
	return f == "" || domain.Severity(f) == s
}
