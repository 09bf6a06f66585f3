package environment

import "strings"

// Environment names the deployment the process runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes a configured environment name. Short aliases ("dev",
// "stage", "prod") are accepted; anything unrecognized is development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

// String implements fmt.Stringer.
func (e Environment) String() string { return string(e) }

// IsProduction reports whether e is the production deployment.
func (e Environment) IsProduction() bool { return e == Production }
