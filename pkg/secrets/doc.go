// Package secrets provides authenticated symmetric encryption for the
// sensitive columns of the telehive database.
//
// All session auth keys, API credentials and proxy credentials are
// encrypted with one process-wide AES-256-GCM data key before they touch
// the database. Tokens carry their own nonce and integrity tag, so any
// tampering or a wrong key is detected on decrypt and reported as a
// *DecryptionError.
//
//	cipher, err := secrets.NewSymmetric(dataKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encrypt with associated data binding the blob to its owner
//	token, err := cipher.Encrypt([]byte("session:42"), authKey)
//
//	// Decrypt
//	authKey, err := cipher.Decrypt([]byte("session:42"), token)
//
// The data key is supplied once at process start via TELEHIVE_DATA_KEY;
// a new one can be produced with GenerateKey (see "hivectl data-key
// generate").
package secrets
