package exchange

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Send performs r once and returns the response body as is. The status code
// is not inspected.
func Send(r *Request, options *Options) (string, error) {
	client, err := BuildHTTPClient(options)
	if err != nil {
		return "", err
	}
	req, err := BuildHTTPRequest(r)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"url":    r.URL,
	}).Debug("sending request")

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "sending HTTP request")
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading response body")
	}
	logrus.WithFields(logrus.Fields{
		"status": resp.Status,
		"length": len(body),
	}).Debug("received response")

	return string(body), nil
}
