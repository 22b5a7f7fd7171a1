package schema

// ExtensionSchemaURLs maps dotkit extension keys to the canonical URL of their JSON schema.
// Companion tools publish their own schemas, and this manifest is used to compose them
// into a unified schema for validation and IDE support.
//
// Extension schemas are currently commented out. Once schemas are published as
// GitHub release assets or through a schema hosting service, they can be uncommented.
var ExtensionSchemaURLs = map[string]string{
	// "logging": "https://github.com/dotforge/dotkit/releases/download/v0.1.0/logging.schema.json",
}
