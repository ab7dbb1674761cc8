package ports

// SignatureVerifier checks that a signature over a message was produced by the
// claimed address. It returns core.ErrInvalidSignature or core.ErrAddressMismatch.
type SignatureVerifier interface {
	Verify(message, signature, claimedAddress string) error
}
