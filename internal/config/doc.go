// Package config loads and watches the optional lightcone.yaml file.
//
// Top-level types:
//   - Config{Space, Tolerance, Lang, LogLevel, Window, View}
//   - SpaceConfig: the two legs x and y (default 3 and 4)
//   - ToleranceConfig: rel/abs bounds for the ct² comparison
//   - WindowConfig: framebuffer size, window scale, update rate
//   - ViewConfig: initial yaw, pitch and zoom of the plot camera
//
// Defaults() reproduces the tool's built-in constants, so running without a
// file behaves exactly like running with an empty one. Load(path) reads the
// YAML on top of the defaults and validates ranges and enums.
//
// Watch(ctx, path, log, onChange) uses fsnotify to reload the file while the
// plot window is open and re-adds the watch after an atomic-save rename.
package config
