package backend

import "context"

// DeviceCode is the start of a Microsoft device authorization: the user
// enters UserCode at VerificationURI while the launcher waits.
type DeviceCode struct {
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	DeviceCode      string `json:"device_code"`
}

// Account is a completed Microsoft authorization.
type Account struct {
	ID              string `json:"account_id"`
	DisplayName     string `json:"display_name"`
	CredentialToken string `json:"credential_token"`
}

// LaunchOptions are the parameters of a launch_game command.
type LaunchOptions struct {
	ProfileID     string `json:"profileId"`
	Username      string `json:"username"`
	Version       string `json:"version"`
	CloseLauncher bool   `json:"closeLauncher"`
	RAM           int    `json:"ram"`
}

// GetProfiles fetches the configured game profiles.
func (c *Client) GetProfiles(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := c.Call(ctx, MethodGetProfiles, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// CheckIsInstalled reports whether the given game version is present on
// disk.
func (c *Client) CheckIsInstalled(ctx context.Context, version string) (bool, error) {
	var installed bool
	params := struct {
		Version string `json:"version"`
	}{version}
	if err := c.Call(ctx, MethodCheckIsInstalled, params, &installed); err != nil {
		return false, err
	}
	return installed, nil
}

// InstallGame downloads and installs the assets for a profile. The command
// completes only when the install has finished or failed.
func (c *Client) InstallGame(ctx context.Context, profileID, version string) error {
	params := struct {
		ProfileID string `json:"profileId"`
		Version   string `json:"version"`
	}{profileID, version}
	return c.Call(ctx, MethodInstallGame, params, nil)
}

// LaunchGame starts the game process. Success means the process was
// started, not that it ran to completion.
func (c *Client) LaunchGame(ctx context.Context, opts LaunchOptions) error {
	return c.Call(ctx, MethodLaunchGame, opts, nil)
}

// CheckBlacklist reports whether a username is rejected by policy.
func (c *Client) CheckBlacklist(ctx context.Context, username string) (bool, error) {
	var blocked bool
	params := struct {
		Username string `json:"username"`
	}{username}
	if err := c.Call(ctx, MethodCheckBlacklist, params, &blocked); err != nil {
		return false, err
	}
	return blocked, nil
}

// CheckPremiumName reports whether a username belongs to a paid account.
func (c *Client) CheckPremiumName(ctx context.Context, username string) (bool, error) {
	var premium bool
	params := struct {
		Username string `json:"username"`
	}{username}
	if err := c.Call(ctx, MethodCheckPremiumName, params, &premium); err != nil {
		return false, err
	}
	return premium, nil
}

// StartMicrosoftLogin requests a device code from the identity provider.
func (c *Client) StartMicrosoftLogin(ctx context.Context) (DeviceCode, error) {
	var code DeviceCode
	if err := c.Call(ctx, MethodStartMicrosoftLogin, nil, &code); err != nil {
		return DeviceCode{}, err
	}
	return code, nil
}

// FinishMicrosoftLogin resolves once the user has authorized the device
// code, however long that takes. Poll and backoff against the identity
// provider happen backend-side.
func (c *Client) FinishMicrosoftLogin(ctx context.Context, deviceCode string) (Account, error) {
	var account Account
	params := struct {
		DeviceCode string `json:"deviceCode"`
	}{deviceCode}
	if err := c.Call(ctx, MethodFinishMicrosoftLogin, params, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// OpenURL asks the backend to open a URL in the default browser.
func (c *Client) OpenURL(ctx context.Context, url string) error {
	params := struct {
		URL string `json:"url"`
	}{url}
	return c.Call(ctx, MethodOpenURL, params, nil)
}

// DeleteCache wipes the backend's downloaded game assets.
func (c *Client) DeleteCache(ctx context.Context) error {
	return c.Call(ctx, MethodDeleteCache, nil, nil)
}
