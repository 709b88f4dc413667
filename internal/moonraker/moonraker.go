package moonraker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/internal/utils"
)

// ProbeTimeout bounds a single [Probe] call.
const ProbeTimeout = 5 * time.Second

// PrinterInfo is the subset of the /printer/info result we report.
type PrinterInfo struct {
	State        string `json:"state"`
	StateMessage string `json:"state_message"`
	Hostname     string `json:"hostname"`
	SoftwareVer  string `json:"software_version"`
}

type printerInfoResponse struct {
	Result PrinterInfo `json:"result"`
}

// Probe checks that Moonraker answers at klipper.MoonrakerURL by calling
// GET /printer/info. The API key, when set, is sent as X-Api-Key.
// A nil client uses http.DefaultClient.
func Probe(ctx context.Context, klipper config.KlipperConfig, client *http.Client) (PrinterInfo, error) {
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(strings.TrimSpace(klipper.MoonrakerURL), "/")
	if base == "" {
		return PrinterInfo{}, fmt.Errorf("moonraker URL is empty")
	}
	url := base + "/printer/info"

	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PrinterInfo{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if klipper.APIKey != "" {
		req.Header.Set("X-Api-Key", klipper.APIKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return PrinterInfo{}, fmt.Errorf("moonraker unreachable at %s: %w", base, err)
	}
	defer utils.CloseWithLog(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PrinterInfo{}, fmt.Errorf("error reading moonraker response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return PrinterInfo{}, fmt.Errorf("moonraker at %s returned status %d: %s", base, resp.StatusCode, utils.TruncateString(string(body), utils.MaxErrorBodyLength))
	}

	var info printerInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		// Reachable is what matters; an odd body is only logged.
		log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("moonraker printer info not decodable")
		return PrinterInfo{}, nil
	}
	return info.Result, nil
}
