package infrastructure

// Lookup returns the stored value for key.
func Lookup(key string) string {
	return "hello " + key
}
