// Package config loads container settings from a YAML file, a .env file and
// SIMPLEDI_* environment variables, and turns them into container options.
//
//	cfg, err := config.Load(config.WithConfigFile("simpledi.yml"))
//	if err != nil {
//	    return err
//	}
//	c := simpledi.New(cfg.Options(os.Stderr)...)
//
// Environment variables take precedence over the file. Values from the .env
// file never override variables already present in the environment.
package config
