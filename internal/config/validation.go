package config

import (
	"fmt"
	"net/url"
	"time"

	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateGitHub,
		c.validateResolver,
		c.validateServe,
		c.validateDescriptors,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateGitHub() error {
	switch c.GitHub.Source {
	case TreeSourceAPI, TreeSourceGit:
	default:
		return rderrors.ValidationFailed("github.source", fmt.Sprintf("unsupported tree source %q (api|git)", c.GitHub.Source))
	}
	for field, raw := range map[string]string{
		"github.api_url": c.GitHub.APIURL,
		"github.raw_url": c.GitHub.RawURL,
		"github.git_url": c.GitHub.GitURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return rderrors.ValidationFailed(field, fmt.Sprintf("invalid URL %q", raw))
		}
	}
	if c.GitHub.CloneDepth < 0 {
		return rderrors.ValidationFailed("github.clone_depth", "cannot be negative")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if err := validDuration("resolver.timeout", c.Resolver.Timeout); err != nil {
		return err
	}
	r := c.Resolver.Retry
	if r.MaxRetries < 0 {
		return rderrors.ValidationFailed("resolver.retry.max_retries", "cannot be negative")
	}
	if NormalizeRetryBackoff(string(r.Backoff)) == "" {
		return rderrors.ValidationFailed("resolver.retry.backoff", fmt.Sprintf("unsupported backoff %q", r.Backoff))
	}
	if err := validDuration("resolver.retry.initial_delay", r.InitialDelay); err != nil {
		return err
	}
	return validDuration("resolver.retry.max_delay", r.MaxDelay)
}

func (c *Config) validateServe() error {
	return validDuration("serve.interval", c.Serve.Interval)
}

func (c *Config) validateDescriptors() error {
	for i, d := range c.Descriptors {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("descriptors[%d]: %w", i, err)
		}
	}
	return nil
}

// validDuration accepts an empty value (meaning default).
func validDuration(field, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return rderrors.ValidationFailed(field, err.Error())
	}
	if d <= 0 {
		return rderrors.ValidationFailed(field, "must be positive")
	}
	return nil
}
