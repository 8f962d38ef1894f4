package config

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/caarlos0/env/v11"

	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
)

// Build modes exposed to templates as {{BUILD_MODE}}.
const (
	BuildModeStaging    = "staging"
	BuildModeProduction = "production"
)

// SiteVars holds the values substituted into {{PLACEHOLDER}} markers of the site sources.
type SiteVars struct {
	Domain          string `env:"DOMAIN"`
	ContactEmail    string `env:"CONTACT_EMAIL"`
	ContactPhone    string `env:"CONTACT_PHONE"`
	ContactPhoneTel string `env:"CONTACT_PHONE_TEL"`
	FacebookURL     string `env:"FACEBOOK_URL"`
	GithubURL       string `env:"GITHUB_URL"`
	FormspreeID     string `env:"FORMSPREE_ID"`
	Version         string `env:"VERSION" envDefault:"dev"`
	BuildMode       string `env:"BUILD_MODE" envDefault:"staging"`
}

// LoadSiteVars reads placeholder values from the environment. All missing required variables are
// reported together. When production is set the build mode is forced to production.
func LoadSiteVars(production bool) (*SiteVars, error) {
	var vars SiteVars
	if err := env.Parse(&vars); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse site environment").
			Fatal().
			Build()
	}

	if missing := vars.missingRequired(); len(missing) > 0 {
		return nil, errors.ConfigError(fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", "))).
			WithContext("missing", missing).
			WithContext("hint", "Set them in your environment or .env file").
			Build()
	}

	if vars.ContactPhoneTel == "" {
		vars.ContactPhoneTel = PhoneToTel(vars.ContactPhone)
	}
	if production {
		vars.BuildMode = BuildModeProduction
	}
	return &vars, nil
}

func (v *SiteVars) missingRequired() []string {
	required := []struct {
		key   string
		value string
	}{
		{"DOMAIN", v.Domain},
		{"CONTACT_EMAIL", v.ContactEmail},
		{"CONTACT_PHONE", v.ContactPhone},
		{"FACEBOOK_URL", v.FacebookURL},
		{"GITHUB_URL", v.GithubURL},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	return missing
}

// Placeholders returns the placeholder name to value mapping used for substitution.
func (v *SiteVars) Placeholders() map[string]string {
	return map[string]string{
		"DOMAIN":            v.Domain,
		"CONTACT_EMAIL":     v.ContactEmail,
		"CONTACT_PHONE":     v.ContactPhone,
		"CONTACT_PHONE_TEL": v.ContactPhoneTel,
		"FACEBOOK_URL":      v.FacebookURL,
		"GITHUB_URL":        v.GithubURL,
		"FORMSPREE_ID":      v.FormspreeID,
		"VERSION":           v.Version,
		"BUILD_MODE":        v.BuildMode,
	}
}

// PhoneToTel converts a display phone number into a tel: href value.
// French national numbers ("06 12 34 56 78") become +33612345678.
func PhoneToTel(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if strings.HasPrefix(d, "0") {
		return "+33" + d[1:]
	}
	return "+" + d
}
