package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Tokens    bool
	Events    bool
	Marshal   bool
	Unmarshal bool
	Registry  bool
	Client    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Tokens = boolEnv("OFX_DEBUG_TOKENS")
	d.Events = boolEnv("OFX_DEBUG_EVENTS")
	d.Marshal = boolEnv("OFX_DEBUG_MARSHAL")
	d.Unmarshal = boolEnv("OFX_DEBUG_UNMARSHAL")
	d.Registry = boolEnv("OFX_DEBUG_REGISTRY")
	d.Client = boolEnv("OFX_DEBUG_CLIENT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Tokens() bool {
	return d.Tokens
}
func Events() bool {
	return d.Events
}
func Marshal() bool {
	return d.Marshal
}
func Unmarshal() bool {
	return d.Unmarshal
}
func Registry() bool {
	return d.Registry
}
func Client() bool {
	return d.Client
}
