package report

import "fmt"

// DatePolicy decides whether Update may move a report to another date.
type DatePolicy string

const (
	DateImmutable  DatePolicy = "immutable"
	DateRevalidate DatePolicy = "revalidate"
)

// DeletePolicy decides whether Delete flags the row or removes it.
type DeletePolicy string

const (
	DeleteLogical  DeletePolicy = "logical"
	DeletePhysical DeletePolicy = "physical"
)

func ParseDatePolicy(v string) (DatePolicy, error) {
	switch DatePolicy(v) {
	case "":
		return DateImmutable, nil
	case DateImmutable, DateRevalidate:
		return DatePolicy(v), nil
	default:
		return "", fmt.Errorf("unknown report date policy %q", v)
	}
}

func ParseDeletePolicy(v string) (DeletePolicy, error) {
	switch DeletePolicy(v) {
	case "":
		return DeleteLogical, nil
	case DeleteLogical, DeletePhysical:
		return DeletePolicy(v), nil
	default:
		return "", fmt.Errorf("unknown report delete policy %q", v)
	}
}

type Policies struct {
	Date   DatePolicy
	Delete DeletePolicy
}

func DefaultPolicies() Policies {
	return Policies{Date: DateImmutable, Delete: DeleteLogical}
}
