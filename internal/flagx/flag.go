// Package flagx lets several components read their own command-line flags
// from the same argument list without tripping over each other's flags.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-f value" and "-f=value" forms are recognized; a token that
// starts with "-" is never consumed as a value.
//
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// Take removes the flag name and its value from args and returns them
// separately. Unlike FilterArgs, the token after "-p" is always its value,
// even when it starts with "-", so "-p -secret" yields "-secret". The
// "-p=value" form is accepted too. When the flag repeats, the last value
// wins. rest is a fresh slice; args is not modified.
func Take(args []string, name string) (value string, rest []string, ok bool) {
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if v, found := strings.CutPrefix(arg, name+"="); found {
			value, ok = v, true
			continue
		}

		if arg != name {
			rest = append(rest, arg)
			continue
		}
		ok = true
		value = ""
		if i+1 < len(args) {
			value = args[i+1]
			i++
		}
	}

	return value, rest, ok
}

// FileFlags extracts the paths of the JSON config file (-c/-config) and the
// dotenv file (-env) from args. Missing flags yield empty strings.
func FileFlags(args []string) (configFile, envFile string) {
	filtered := FilterArgs(args, []string{"-c", "-config", "-env"})

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.StringVar(&configFile, "config", "", "Path to config file")
	fs.StringVar(&configFile, "c", "", "Path to config file (short)")
	fs.StringVar(&envFile, "env", "", "Path to .env file")
	_ = fs.Parse(filtered)

	return configFile, envFile
}
