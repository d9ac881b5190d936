package services

// CredentialKind tags the secret a caller presents at sign-in.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialPassword
	CredentialOTP
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialPassword:
		return "password"
	case CredentialOTP:
		return "otp"
	default:
		return "none"
	}
}

type Credential struct {
	Kind   CredentialKind
	Secret string
}

// NewCredential picks the sign-in mode from the optional request fields.
// A password takes precedence when both are present.
func NewCredential(password, otp string) Credential {
	switch {
	case password != "":
		return Credential{Kind: CredentialPassword, Secret: password}
	case otp != "":
		return Credential{Kind: CredentialOTP, Secret: otp}
	default:
		return Credential{Kind: CredentialNone}
	}
}
