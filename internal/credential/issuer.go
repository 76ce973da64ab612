// Package credential derives the verification artifact for approved
// applications. The artifact is a QR code pointing at the public
// verification endpoint; rendering beyond the PNG is a downstream concern.
package credential

import (
	"context"
	"fmt"
	"path"

	qrcode "github.com/skip2/go-qrcode"

	"eregister/internal/application/models"
	"eregister/internal/blobstore"
)

const qrSize = 256

// Issuer mints verification credential references. Issue is deterministic in
// the application's identity: re-issuing for the same uid always yields the
// same reference, so an Approved record's credentialRef never drifts.
type Issuer struct {
	blobs   blobstore.Store
	baseURL string
}

func New(blobs blobstore.Store, publicBaseURL string) *Issuer {
	return &Issuer{blobs: blobs, baseURL: publicBaseURL}
}

// Issue encodes the verification URL for app into a QR PNG, stores it, and
// returns the stored reference. Failures leave no credential behind.
func (i *Issuer) Issue(ctx context.Context, app models.Application) (string, error) {
	content := fmt.Sprintf("%s/verify/%s", i.baseURL, app.UID)
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode verification qr: %w", err)
	}

	key := path.Join("qr_codes", app.UID+".png")
	ref, err := i.blobs.Put(ctx, key, "image/png", png)
	if err != nil {
		return "", fmt.Errorf("store verification qr: %w", err)
	}
	return ref, nil
}
