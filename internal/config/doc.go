// Package config loads the imphook runtime configuration.
//
// Settings come from, highest priority first: command line flags bound to
// the viper instance, IMPHOOK_* environment variables, an imphook.yaml (or
// .toml/.json) file in the working directory or ~/.config/imphook, and
// built-in defaults.
//
//	Key          Env                  Default
//	host         IMPHOOK_HOST         pipeline
//	path         IMPHOOK_PATH         cwd, ~/.config/imphook/modules
//	log_level    IMPHOOK_LOG_LEVEL    warn
//	log_format   IMPHOOK_LOG_FORMAT   auto
//	lua_timeout  IMPHOOK_LUA_TIMEOUT  5s
//
// IMPHOOK_PATH is a list separated by the OS path list separator.
package config
