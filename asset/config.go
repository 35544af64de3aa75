package asset

// DefaultConfigYAML is the annotated default configuration printed by `vi-display config`
// Values must match config.Default
const DefaultConfigYAML = `# vi-display configuration

display:
  # Intro overlay fades in and out once before the scene starts
  overlay_enabled: true
  # PNG, .txt ASCII art, or builtin:logo
  overlay_texture_path: builtin:logo
  intro_frames: 60

  # Diagnostics rows; debug_all enables every row
  show_fps: false
  show_memory: false
  show_sprite_counts: false
  debug_all: false
  # Log overlay requires debug_all
  show_log_overlay: false

  target_fps: 60
  emulator: false

  # Channels in [0,1]; alpha scales the color
  clear_color:
    r: 0
    g: 0
    b: 0
    a: 0

logging:
  # File only; the terminal is in raw mode
  enabled: true
  dir: logs
  level: info
  max_size_mb: 10
  ring_lines: 8

audio:
  enabled: true

diagnostics:
  # Empty disables the websocket metrics feed
  listen_addr: ""
  publish_interval: 1s
`
