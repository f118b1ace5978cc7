// Package openai provides AI service implementations backed by
// OpenAI-compatible HTTP APIs, including local services such as Ollama
// running with an OpenAI compatibility layer.
//
// The package exposes a Provider that bundles an Embedder for vector
// generation and a Generator for chat completions. Both are configured
// through ai.Config, which allows embedding and chat to target
// different hosts and models.
//
// Constructors return interface types to keep callers decoupled from
// the concrete langchaingo-backed implementations.
package openai
