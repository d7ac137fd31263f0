package resolve

import (
	"context"
	"errors"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"

	"github.com/markdingo/batchresolve/internal/wireclient"
)

// retryLoop issues one question against server, making at most triesLeft attempts and retrying on
// wireclient.KindTimeout and wireclient.KindCanceled. Every attempt - including a canceled one -
// consumes a try; the final attempt's cancellation reason is logged at debug level since it's the
// one that actually determines the task's outcome. A wireclient.KindOther failure is never
// retried; it surfaces immediately as a *DNSClientError.
//
// Returns the reply on the first successful exchange, or ErrConnectionTimeout once triesLeft
// reaches zero without one.
func retryLoop(ctx context.Context, client wireclient.Client, server, name string, class, rtype uint16, triesLeft uint32, logger *log.Entry) (*dns.Msg, error) {
	for triesLeft > 0 {
		msg, err := client.Query(ctx, server, name, class, rtype)
		if err == nil {
			return msg, nil
		}

		var werr *wireclient.Error
		if !errors.As(err, &werr) {
			return nil, &DNSClientError{Err: err}
		}

		switch werr.Kind {
		case wireclient.KindTimeout:
			triesLeft--
		case wireclient.KindCanceled:
			triesLeft--
			if triesLeft == 0 && logger != nil {
				logger.WithError(werr).Debug("final retry canceled")
			}
		default:
			return nil, &DNSClientError{Err: err}
		}
	}

	return nil, ErrConnectionTimeout
}
