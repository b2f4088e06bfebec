// Package config loads and saves vhv.json, the CLI configuration file.
//
// Lookup walks up from the working directory to the first vhv.json. When none
// exists the defaults are used, rooted at the working directory. A .env file
// next to vhv.json is loaded into the environment first, and VHV_* variables
// then override file values:
//
//	VHV_TEMPLATES_DIR       templatesDir
//	VHV_FRAMEWORK_MANIFEST  frameworkManifest
//	VHV_ANALYSIS_WORKERS    analysis.workers
//	VHV_IMPORT_TIMEOUT      import.timeout
//	VHV_REMOTE_BUCKET       remote.bucket
//	VHV_REMOTE_PREFIX       remote.prefix
//	VHV_REMOTE_REGION       remote.region
//	VHV_REMOTE_ENDPOINT     remote.endpoint
//	VHV_SERVER_HOST         server.host
//	VHV_SERVER_PORT         server.port
//	VHV_METRICS_TEXTFILE    metrics.textfile
//
// Example vhv.json:
//
//	{
//	  "templatesDir": "templates",
//	  "analysis": { "workers": 8, "cacheSize": 4096 },
//	  "import": { "timeout": "5m" },
//	  "remote": { "bucket": "my-templates", "region": "eu-west-1" }
//	}
package config
