package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	KeyOperator = "operator"
)

// HeaderOperator names the acting back-office user.
const HeaderOperator = "X-Operator"
