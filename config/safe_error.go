package config

// SafeErrorMessage returns err.Error() in debug mode and the fallback
// otherwise, so internal details never leak to clients in release mode.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
