package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across the decoder, the generators, and the stage runner.

// --- Decoder Attributes ---

const (
	// AttrDecodeStage is the outcome of a decode call ("parsed", "repaired", "recovered", "absent")
	AttrDecodeStage = "decode.stage"

	// AttrDecodeCandidate names the extraction strategy that produced the candidate span
	AttrDecodeCandidate = "decode.candidate"

	// AttrDecodeInputLength is the length of the raw text in bytes
	AttrDecodeInputLength = "decode.input.length"

	// AttrDecodeLine is the 1-based line of a parse failure
	AttrDecodeLine = "decode.line"

	// AttrDecodeColumn is the 1-based column of a parse failure
	AttrDecodeColumn = "decode.column"

	// AttrDecodeContext holds the lines surrounding a parse failure
	AttrDecodeContext = "decode.context"

	// AttrDecodeRecovered is the number of entries salvaged by pattern recovery
	AttrDecodeRecovered = "decode.recovered"
)

// --- Generator Attributes ---

const (
	// AttrGeneratorName identifies the backend ("cli", "openai")
	AttrGeneratorName = "generator.name"

	// AttrGeneratorCommand is the external command line
	AttrGeneratorCommand = "generator.command"

	// AttrGeneratorModel is the model identifier for HTTP backends
	AttrGeneratorModel = "generator.model"

	// AttrGeneratorPromptLength is the prompt length in bytes
	AttrGeneratorPromptLength = "generator.prompt.length"

	// AttrGeneratorOutputLength is the output length in bytes
	AttrGeneratorOutputLength = "generator.output.length"

	// AttrGeneratorStderr is the (truncated) standard error of the external command
	AttrGeneratorStderr = "generator.stderr"

	// AttrGeneratorExitCode is the exit code of the external command
	AttrGeneratorExitCode = "generator.exit_code"

	// AttrGeneratorAttempt is the 1-based attempt number
	AttrGeneratorAttempt = "generator.attempt"
)

// --- Pipeline Attributes ---

const (
	// AttrStageName is the pipeline stage ("plots", "characters", "details")
	AttrStageName = "stage.name"

	// AttrRunID is the unique id of a stage run
	AttrRunID = "stage.run_id"

	// AttrSessionTone is the tone selected for the session
	AttrSessionTone = "session.tone"

	// AttrSessionKeywords is the keyword list for the session
	AttrSessionKeywords = "session.keywords"

	// AttrSessionCount is the number of stories requested
	AttrSessionCount = "session.count"

	// AttrDetailSection is the section developed by a detail stage run
	AttrDetailSection = "detail.section"

	// AttrPlaceholder reports whether placeholder content replaced the generator output
	AttrPlaceholder = "stage.placeholder"

	// AttrOutputPath is the file a stage result was written to
	AttrOutputPath = "stage.output_path"

	// AttrReferencesCount is the number of reference episodes sent with a prompt
	AttrReferencesCount = "references.count"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the elapsed time of an operation
	AttrDuration = "duration"

	// AttrStatus is the span status
	AttrStatus = "status"

	// AttrStatusDescription is the span status description
	AttrStatusDescription = "status.description"
)

// --- Span Names ---

const (
	SpanDecode     = "decode"
	SpanGenerate   = "generator.generate"
	SpanStage      = "pipeline.stage"
	SpanReferences = "references.process"
)

// --- Metric Names ---

const (
	// MetricDecodeResults counts decode calls by stage
	MetricDecodeResults = "scenario.decode.results"

	// MetricGeneratorDuration records generator latency in seconds
	MetricGeneratorDuration = "scenario.generator.duration"

	// MetricGeneratorFailures counts failed generator attempts
	MetricGeneratorFailures = "scenario.generator.failures"

	// MetricPlaceholders counts stage runs that fell back to placeholder content
	MetricPlaceholders = "scenario.stage.placeholders"
)
