// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.contentrag/config.toml
//   - PromptStore: user-editable synthesis prompts under ~/.contentrag/prompts
package file
