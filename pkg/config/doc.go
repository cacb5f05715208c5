/*
Package config turns the YAML configuration and params documents into one immutable,
typed struct per pipeline stage.

Sections are decoded with mapstructure. Unknown keys and missing required keys are rejected
when the section is requested, and every error wraps domain.ErrConfiguration.

	m, err := config.NewManager(config.DefaultConfigPath, config.DefaultParamsPath, config.WithLogger(logger))
	if err != nil {
		return err
	}
	ingestion, err := m.DataIngestionConfig()
*/
package config
