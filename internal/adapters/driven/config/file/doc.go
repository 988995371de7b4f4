// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the docassist config directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable LLM prompt templates
package file
