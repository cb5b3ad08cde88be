package vulkan

import "fmt"

// debugMessengerInfo builds the messenger configuration. The same value is
// chained into instance creation and used for the standalone messenger.
func debugMessengerInfo(cfg Config) DebugMessengerCreateInfo {
	severity := SeverityWarning | SeverityError
	if cfg.VerboseDiagnostics {
		severity |= SeverityVerbose | SeverityInfo
	}

	return DebugMessengerCreateInfo{
		Severity: severity,
		Types:    MessageGeneral | MessageValidation | MessagePerformance,
		Callback: debugCallback,
	}
}

func debugCallback(severity MessageSeverity, _ MessageType, message string) bool {
	fmt.Fprintf(diagnosticsSink, "[VULKAN %s] %s\n", severityLabel(severity), message)
	return false
}

func severityLabel(severity MessageSeverity) string {
	switch {
	case severity >= SeverityError:
		return "ERROR"
	case severity >= SeverityWarning:
		return "WARNING"
	case severity >= SeverityInfo:
		return "INFO"
	default:
		return "VERBOSE"
	}
}

func createDebugMessenger(instance Instance, cfg Config) (DebugMessenger, error) {
	messenger, err := instance.CreateDebugMessenger(debugMessengerInfo(cfg))
	if err != nil {
		return nil, stepError(StepDebugMessenger, "debug messenger", err)
	}
	return messenger, nil
}
