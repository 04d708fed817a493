package enum

// Values stored in the database, CHECK constrained.

const (
	BoxTypeSmall = "small"
	BoxTypeLarge = "large"
)

const (
	UserRoleAdmin = "ADMIN"
	UserRoleClerk = "CLERK"
)

// Labels used on the wire only.

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

const (
	EventOperationCreated = "operation.created"
	EventRollupUpdated    = "rollup.updated"
)
