package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"
)

// ConfigCheck reports configuration problems, one item per invalid field.
type ConfigCheck struct {
	validate func() error
	path     string
}

// NewConfigCheck creates a config check. validate is usually
// Config.ValidateDeep bound to path.
func NewConfigCheck(path string, validate func() error) *ConfigCheck {
	return &ConfigCheck{validate: validate, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	err := c.validate()
	if err == nil {
		detail := c.path
		if detail == "" {
			detail = "defaults"
		}
		result.Items = append(result.Items, CheckItem{Label: "config", Status: StatusPass, Detail: detail})
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.Items = append(result.Items, CheckItem{Label: "config", Status: StatusFail, Detail: err.Error()})
		return result
	}

	for _, fe := range fieldErrs {
		result.Items = append(result.Items, CheckItem{Label: fe.Field, Status: StatusFail, Detail: fe.Err.Error()})
	}
	return result
}
