package options

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

var ErrInvalidToggle = errors.New("invalid seasonality toggle value")

type toggleState int

const (
	toggleAuto toggleState = iota
	toggleOff
	toggleOn
)

// Toggle is the tri-state value of a built-in seasonality: auto, disabled, or
// enabled with an optional Fourier order. The zero value is auto, matching the
// underlying model's default.
type Toggle struct {
	state toggleState
	order int
}

// AutoToggle leaves the decision to the underlying model. Rejected by the
// remote protocol, see Options.Validate.
func AutoToggle() Toggle {
	return Toggle{state: toggleAuto}
}

// DisabledToggle switches the seasonality off.
func DisabledToggle() Toggle {
	return Toggle{state: toggleOff}
}

// EnabledToggle switches the seasonality on with the model's default Fourier order.
func EnabledToggle() Toggle {
	return Toggle{state: toggleOn}
}

// OrderToggle switches the seasonality on with an explicit Fourier order.
func OrderToggle(order int) Toggle {
	return Toggle{state: toggleOn, order: order}
}

// IsAuto reports whether the toggle was left at the auto sentinel.
func (t Toggle) IsAuto() bool {
	return t.state == toggleAuto
}

// Enabled reports whether the seasonality is explicitly switched on.
func (t Toggle) Enabled() bool {
	return t.state == toggleOn
}

// Order returns the explicit Fourier order, 0 meaning the model default.
func (t Toggle) Order() int {
	return t.order
}

func (t Toggle) String() string {
	switch t.state {
	case toggleAuto:
		return "auto"
	case toggleOff:
		return "false"
	}
	if t.order > 0 {
		return strconv.Itoa(t.order)
	}
	return "true"
}

// MarshalJSON emits "auto", a boolean, or a Fourier order number.
func (t Toggle) MarshalJSON() ([]byte, error) {
	switch t.state {
	case toggleAuto:
		return []byte(`"auto"`), nil
	case toggleOff:
		return []byte("false"), nil
	}
	if t.order > 0 {
		return []byte(strconv.Itoa(t.order)), nil
	}
	return []byte("true"), nil
}

// UnmarshalJSON accepts "auto", booleans, and numeric Fourier orders.
func (t *Toggle) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		if v != "auto" {
			return fmt.Errorf("%q, %w", v, ErrInvalidToggle)
		}
		*t = AutoToggle()
	case bool:
		if v {
			*t = EnabledToggle()
		} else {
			*t = DisabledToggle()
		}
	case float64:
		if v < 0 || v != float64(int(v)) {
			return fmt.Errorf("%v, %w", v, ErrInvalidToggle)
		}
		*t = OrderToggle(int(v))
	default:
		return fmt.Errorf("%v, %w", raw, ErrInvalidToggle)
	}
	return nil
}
