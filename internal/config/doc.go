// Package config loads and watches the vitalcheck configuration file.
//
// Top-level types:
//   - Config{Server}: full config tree parsed from YAML
//   - ServerConfig: http_port, ui_dir, timeouts, max_body_bytes, log_level,
//     cors, auth, metrics
//   - AuthConfig: mode (apikey|none), header, key_env; Key() resolves the
//     key from the named environment variable
//
// Load(path) reads the YAML file, applies defaults (port 3000, 64 KiB bodies,
// info logging, auth disabled), lets the PORT environment variable override
// the port, then validates. Default() returns the same defaults without a
// file.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. Only log_level and auth are applied
// live by the server; other fields take effect on restart.
package config
