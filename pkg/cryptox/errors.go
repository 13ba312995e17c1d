package cryptox

import "errors"

var ErrFailedToAppendCertToPool = errors.New("failed to append certs from pem")
