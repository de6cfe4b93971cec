// Package homeassistant provides a typed client for the Home Assistant REST API.
//
// Every call resolves its credentials independently: values passed with the
// call win, then the client-wide credentials, then an optional fallback
// source such as EnvironmentFallback, which reads HA_URL and HA_TOKEN once.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client := homeassistant.NewClient(logger,
//		homeassistant.WithFallback(homeassistant.EnvironmentFallback(".env")),
//		homeassistant.WithTimeout(10*time.Second),
//	)
//
//	cfg, err := client.Config(ctx, homeassistant.Credentials{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(cfg.Version)
//
//	// Write operations live on the Poster
//	_, err = client.Request().Service(ctx, homeassistant.Credentials{},
//		"light", "turn_on", map[string]any{"entity_id": "light.kitchen"}, false)
//
// # Status handling
//
// Most operations fail with *HTTPError on a non-2xx status. Template, Intent,
// ErrorLog and CameraProxy return the body whatever the status and leave its
// interpretation to the caller.
//
// # Error Handling
//
//   - *MissingCredentialError: no base URL or token could be resolved
//   - *HTTPError: non-2xx status on a status-checked endpoint
//   - *DecodeError: the body did not match the expected record, including a
//     null body where a list is expected
//   - *TransportError: the request could not be sent or read
//   - ErrNotSupported: the operation is not implemented (Calendars)
//   - ErrEmptyEntityID: StatesOf was given a blank entity id
package homeassistant
