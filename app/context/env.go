package context

// Environment is the interface to the process environment. Secrets, such as
// the Redis password, are only read from it.
type Environment interface {
	Get(string) string
	Set(string, string) error
}
