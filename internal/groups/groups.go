// Package groups declares the settings groups shipped with bobasettings.
package groups

import (
	"time"

	"github.com/bobasettings/bobasettings/internal/settings"
)

// PaymentMode selects the PayPal environment.
type PaymentMode int

// Payment modes.
const (
	PaymentModeSandbox PaymentMode = iota
	PaymentModeLive
)

func (m PaymentMode) String() string {
	switch m {
	case PaymentModeSandbox:
		return "Sandbox"
	case PaymentModeLive:
		return "Live"
	default:
		return "Unknown"
	}
}

// TestSettings is a minimal group used for smoke tests of a deployment.
type TestSettings struct {
	Enabled       bool   `json:"enabled"`
	DefaultLangID int    `json:"defaultLangId" validate:"gte=0"`
	DefaultColor  string `json:"defaultColor" validate:"required"`
}

// PaypalSettings configures the PayPal payment plugin.
type PaypalSettings struct {
	Mode           PaymentMode `json:"mode" setting:",order=1" validate:"oneof=0 1"`
	BusinessEmail  string      `json:"businessEmail" setting:",order=2" validate:"omitempty,email"`
	ClientID       string      `json:"clientId" setting:",order=3"`
	AdditionalFee  float64     `json:"additionalFee" validate:"gte=0"`
	FeePercentage  bool        `json:"feePercentage"`
	ReturnURL      string      `json:"returnUrl" validate:"omitempty,url"`
	PassProductIDs bool        `json:"passProductIds"`
}

// MaintenanceSettings controls the maintenance window banner.
type MaintenanceSettings struct {
	Enabled  bool          `json:"enabled"`
	Message  string        `json:"message" validate:"max=500"`
	StartsAt *time.Time    `json:"startsAt"`
	Duration time.Duration `json:"duration" validate:"gte=0"`
}

// Plugin returns the plugin the group belongs to.
func (PaypalSettings) Plugin() string { return "payments.paypal" }

// Plugin marks settings groups that belong to a plugin.
type Plugin interface {
	Plugin() string
}

// DefaultTestSettings returns the defaults of TestSettings.
func DefaultTestSettings() TestSettings {
	return TestSettings{Enabled: true, DefaultColor: "Red"}
}

// DefaultPaypalSettings returns the defaults of PaypalSettings.
func DefaultPaypalSettings() PaypalSettings {
	return PaypalSettings{Mode: PaymentModeSandbox, PassProductIDs: true}
}

// DefaultMaintenanceSettings returns the defaults of MaintenanceSettings.
func DefaultMaintenanceSettings() MaintenanceSettings {
	return MaintenanceSettings{Message: "The site is under maintenance.", Duration: time.Hour}
}

// Register adds the enumerations and groups of this package to r.
func Register(r *settings.Registry) error {
	if err := settings.RegisterEnum(r, PaymentModeSandbox, PaymentModeLive); err != nil {
		return err
	}

	if _, err := settings.RegisterGroup(r, DefaultTestSettings); err != nil {
		return err
	}

	if _, err := settings.RegisterGroup(r, DefaultPaypalSettings, settings.WithOrder(10)); err != nil { //nolint:mnd
		return err
	}

	if _, err := settings.RegisterGroup(r, DefaultMaintenanceSettings, settings.WithOrder(-10)); err != nil { //nolint:mnd
		return err
	}

	return nil
}
