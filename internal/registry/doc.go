// Package registry provides the directory of imported templates.
//
// Every subdirectory holding a template.config.json is a template; its
// directory name is the template's registry name:
//
//	templates/
//	├── admin-dashboard/
//	│   ├── template.config.json
//	│   └── src/
//	└── storefront/
//
// Listing tolerates entries that are corrupt or that vanish while the
// directory is being read; they are skipped with a debug log.
//
// # Usage
//
//	reg := registry.New(cfg.TemplatesPath(), registry.WithLogger(logger))
//
//	metas, err := reg.ListTemplateMetadata()
//	tmpl, err := reg.Get("admin-dashboard")
//	err = reg.Remove("storefront")
//
// # Remote mirror
//
// Remote copies templates to and from an S3 bucket (or any S3-compatible
// store such as MinIO):
//
//	client := registry.NewS3Client(registry.S3Options{Region: "us-east-1"})
//	remote := registry.NewRemote(reg, client, "my-bucket", "templates")
//	n, err := remote.Push(ctx, "admin-dashboard")
package registry
