package domain

// PartnerTier is the partner's package; it gates which asset types may be uploaded
type PartnerTier string

const (
	PartnerTierStandard PartnerTier = "standard"
	PartnerTierPro      PartnerTier = "pro"
)

// IsValid checks if the tier is known
func (t PartnerTier) IsValid() bool {
	switch t {
	case PartnerTierStandard, PartnerTierPro:
		return true
	default:
		return false
	}
}

// FieldType is how a configuration is presented in the console
type FieldType string

const (
	FieldTypeColor FieldType = "color"
)

// UploadChannel selects the media host resource type
type UploadChannel string

const (
	UploadChannelImage UploadChannel = "image"
	UploadChannelRaw   UploadChannel = "raw" // 3D models
)

// SubmissionOutcome is recorded in the audit log for every submit that reached the backend
type SubmissionOutcome string

const (
	SubmissionOutcomeCreated  SubmissionOutcome = "created"
	SubmissionOutcomeRejected SubmissionOutcome = "rejected"
)
