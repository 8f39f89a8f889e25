package gitlab

import "context"

const versionEndpointConstant = "/version"

// GetVersion probes the instance version, confirming connectivity and token
// validity in one call.
func (client *Client) GetVersion(executionContext context.Context) (string, error) {
	var response struct {
		Version  string `json:"version"`
		Revision string `json:"revision"`
	}
	requestError := client.get(executionContext, versionEndpointConstant, nil, &response)
	if requestError != nil {
		return "", requestError
	}

	return response.Version, nil
}
