package metrics

import "strings"

// FlattenName rewrites characters prometheus rejects in metric names,
// so ledger operation names can be used as-is.
func FlattenName(name string) string {
	name = strings.Replace(name, " ", "_", -1)
	name = strings.Replace(name, ".", "_", -1)
	name = strings.Replace(name, "-", "_", -1)
	name = strings.Replace(name, "=", "_", -1)
	name = strings.Replace(name, "/", "_", -1)
	return name
}

func BuildFQName(names ...string) string {
	name := strings.Join(names, "_")
	return FlattenName(name)
}
