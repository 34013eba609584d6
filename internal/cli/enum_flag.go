package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumFlagInvalidValueFormat rejects a value outside the allowed set.
const enumFlagInvalidValueFormat = "invalid value %q for --%s; accepted values: %s"

// enumFlagValue is a pflag value restricted to a fixed set of literals, so
// invalid selections fail at parse time instead of mid-scan. When caseFold is
// set, matching ignores case and the canonical literal is stored.
type enumFlagValue struct {
	target        *string
	flagName      string
	typeName      string
	allowedValues []string
	caseFold      bool
}

func (value *enumFlagValue) Set(input string) error {
	candidate := strings.TrimSpace(input)
	for _, allowedValue := range value.allowedValues {
		if candidate == allowedValue || (value.caseFold && strings.EqualFold(candidate, allowedValue)) {
			*value.target = allowedValue
			return nil
		}
	}
	return fmt.Errorf(enumFlagInvalidValueFormat, input, value.flagName, strings.Join(value.allowedValues, ", "))
}

func (value *enumFlagValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *enumFlagValue) Type() string {
	return value.typeName
}

// registerEnumFlag registers a restricted string flag with its default value.
func registerEnumFlag(flagSet *pflag.FlagSet, target *string, name string, typeName string, defaultValue string, caseFold bool, allowedValues []string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&enumFlagValue{
		target:        target,
		flagName:      name,
		typeName:      typeName,
		allowedValues: allowedValues,
		caseFold:      caseFold,
	}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = defaultValue
	}
}
