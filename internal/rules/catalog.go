package rules

import "regexp"

// Severity is the ordinal urgency of a detected issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank returns the presentation rank of a severity (lower sorts first).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityError:
		return 1
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 3
	default:
		return 99
	}
}

// Marker returns the visual marker used when rendering a severity.
func (s Severity) Marker() string {
	switch s {
	case SeverityCritical:
		return "🚨"
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️"
	case SeverityInfo:
		return "ℹ️"
	default:
		return "•"
	}
}

// Rule is a single classification rule. Rules are immutable after init;
// catalog order is used for presentation tie-breaks and dedup, never for
// evaluation (all matching rules fire).
type Rule struct {
	Key         string
	Pattern     *regexp.Regexp
	Severity    Severity
	Title       string
	Description string
	Remediation string
	// Provider scopes the rule: it fires only when this provider was
	// independently detected in the corpus. Empty means unscoped.
	Provider string
}

const docsBase = "https://maestrohq.io/faq/troubleshooting"

// pattern compiles a case-insensitive, multiline rule pattern.
func pattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)` + expr)
}

// Catalog is the fixed set of classification rules evaluated against log
// text. Defined once per process lifetime.
var Catalog = []Rule{
	{
		Key:         "token_expired",
		Pattern:     pattern(`(token.*expired|refresh.*token.*failed|re-authentication required|loginf?ailed)`),
		Severity:    SeverityError,
		Title:       "Authentication Token Expired",
		Description: "Provider authentication has expired or failed",
		Remediation: "Your provider authentication needs to be refreshed:\n" +
			"1. Go to Settings → Providers\n" +
			"2. Find the affected provider and re-authenticate\n" +
			"3. If issues persist, remove and re-add the provider\n" +
			"4. Check that your provider account is active and in good standing",
	},
	{
		Key:         "spotify_auth",
		Pattern:     pattern(`(spotify.*authentication|spotify.*login|spotify.*token)`),
		Severity:    SeverityError,
		Title:       "Spotify Authentication Issue",
		Description: "Spotify authentication failed",
		Remediation: "Spotify authentication problems:\n" +
			"- Go to Settings → Providers → Spotify and re-authenticate\n" +
			"- Consider using a custom Spotify Client ID for better reliability\n" +
			"- Ensure popup blockers aren't preventing the auth window\n" +
			"- Verify you're using a Spotify Premium account",
		Provider: "spotify",
	},
	{
		Key:         "tidal_auth",
		Pattern:     pattern(`(tidal.*authentication|tidal.*login|tidal.*session)`),
		Severity:    SeverityError,
		Title:       "Tidal Authentication Issue",
		Description: "Tidal session or authentication failed",
		Remediation: "Tidal authentication needs refresh:\n" +
			"- Re-authenticate in Settings → Providers → Tidal\n" +
			"- Make sure to copy the full redirect URL correctly\n" +
			"- Verify your Tidal subscription is active",
		Provider: "tidal",
	},
	{
		Key:         "network_timeout",
		Pattern:     pattern(`(connection\s+timeout|timed?\s+out|connection.*refused|network.*unreachable)`),
		Severity:    SeverityWarning,
		Title:       "Network Connection Timeout",
		Description: "Network connectivity issues detected",
		Remediation: "Network connectivity problems detected. Common causes:\n\n" +
			"**If using Pi-hole, AdGuard, or pfSense:**\n" +
			"- These tools can block mDNS/multicast traffic\n" +
			"- Add exceptions for your local network\n" +
			"- Disable DNS blocking temporarily to test\n\n" +
			"**If using VPN or VLAN:**\n" +
			"- The server must be on the same network as your players\n" +
			"- VPN/VLAN separation prevents device discovery\n" +
			"- Move the server to the same network or disable VPN\n\n" +
			"**General network troubleshooting:**\n" +
			"- Use wired connection instead of WiFi if possible\n" +
			"- Check firewall isn't blocking local traffic\n" +
			"- Verify mDNS/multicast is enabled on your network\n" +
			"- Restart your router and the server",
	},
	{
		Key:         "mdns_discovery",
		Pattern:     pattern(`(mdns.*fail|multicast.*block|discovery.*fail|player.*not.*found|device.*not.*reach)`),
		Severity:    SeverityWarning,
		Title:       "Player Discovery Issues (mDNS/Multicast)",
		Description: "Players cannot be discovered on the network",
		Remediation: "Player discovery is failing. This is almost always a network configuration issue:\n\n" +
			"**Required network configuration:**\n" +
			"- mDNS/multicast traffic must NOT be blocked\n" +
			"- The server and players must be on same Layer 2 network\n" +
			"- IGMP snooping should be properly configured\n\n" +
			"**Common blockers:**\n" +
			"- Pi-hole, AdGuard, pfSense blocking multicast\n" +
			"- VPN/VLAN separating networks\n" +
			"- Firewall blocking discovery protocols\n" +
			"- Enterprise WiFi with client isolation\n\n" +
			"**Solutions:**\n" +
			"- Check WiFi settings for multicast/broadcast blocking\n" +
			"- Ensure devices are on same subnet\n" +
			"- Use manual IP configuration if mDNS fails\n" +
			"- See: " + docsBase + "/#network-issues",
	},
	{
		Key:         "connection_reset",
		Pattern:     pattern(`(connection reset|connectionreseterror|broken pipe|stream.*disconnect)`),
		Severity:    SeverityWarning,
		Title:       "Connection Reset During Playback",
		Description: "Network connection dropped during streaming",
		Remediation: "Connections are being reset during playback:\n" +
			"- Switch to wired connection (WiFi can be unstable)\n" +
			"- Check for network interference or weak signal\n" +
			"- Verify no bandwidth throttling or QoS issues\n" +
			"- Try restarting the affected player device",
	},
	{
		Key:         "rate_limit_spotify",
		Pattern:     pattern(`(spotify.*rate.*limit|spotify.*429|spotify.*too many requests)`),
		Severity:    SeverityWarning,
		Title:       "Spotify API Rate Limit",
		Description: "Spotify rate limit reached",
		Remediation: "Spotify's API rate limit has been reached:\n" +
			"- This is temporary and resolves automatically\n" +
			"- Using the default/generic Client ID has heavy rate limiting\n" +
			"- **Solution:** Configure a custom Spotify Client ID\n" +
			"  - Go to Settings → Providers → Spotify\n" +
			"  - Add your own Client ID/Secret from Spotify Developer Dashboard\n" +
			"  - This gives you a dedicated rate limit quota\n" +
			"- Avoid multiple instances using the same credentials",
		Provider: "spotify",
	},
	{
		Key:         "rate_limit_generic",
		Pattern:     pattern(`(rate.*limit|429|too many requests|throttle)`),
		Severity:    SeverityWarning,
		Title:       "API Rate Limit Exceeded",
		Description: "Provider API rate limit reached",
		Remediation: "API rate limit exceeded. This usually resolves automatically:\n" +
			"- Wait 30-60 seconds for the limit window to reset\n" +
			"- Reduce concurrent operations if possible\n" +
			"- Check if multiple instances are using same credentials",
	},
	{
		Key:         "librespot_timeout",
		Pattern:     pattern(`(no audio received from librespot|librespot.*timeout|librespot.*error)`),
		Severity:    SeverityWarning,
		Title:       "Spotify Streaming Timeout (Librespot)",
		Description: "Librespot failed to deliver audio stream",
		Remediation: "Spotify's audio streaming component (librespot) timed out:\n" +
			"- This usually resolves with automatic retry\n" +
			"- Check network stability (use wired if possible)\n" +
			"- If persistent, restart the server\n" +
			"- Verify Spotify service is not experiencing issues",
		Provider: "spotify",
	},
	{
		Key:         "youtube_music_po_token",
		Pattern:     pattern(`(po.*token.*server|ytmusic.*potoken|youtube.*po token)`),
		Severity:    SeverityError,
		Title:       "YouTube Music PO Token Server Missing",
		Description: "YouTube Music requires PO token server",
		Remediation: "YouTube Music provider requires a PO Token server:\n" +
			"- Install the PO Token server addon\n" +
			"- Configure the server URL in YouTube Music provider settings\n" +
			"- Note: YouTube Music is experimental/beta\n" +
			"- See YouTube Music documentation for setup instructions",
		Provider: "youtube_music",
	},
	{
		Key:         "audio_dropout",
		Pattern:     pattern(`(audio.*dropout|playback.*stop|sound.*output.*stop|no sound)`),
		Severity:    SeverityWarning,
		Title:       "Audio Dropout / Playback Stopped",
		Description: "Audio playback interrupted or stopped",
		Remediation: "Audio playback issues detected:\n\n" +
			"**Network-related:**\n" +
			"- Switch to wired connection\n" +
			"- Check for WiFi interference\n" +
			"- Verify sufficient bandwidth\n\n" +
			"**Device-related:**\n" +
			"- Power cycle the player device\n" +
			"- Check device firmware is up to date\n" +
			"- Verify device has sufficient resources (CPU/memory)\n\n" +
			"**Server-side:**\n" +
			"- Restart the server\n" +
			"- Check buffer settings in advanced configuration\n" +
			"- Try different audio quality settings",
	},
	{
		Key:         "buffer_underrun",
		Pattern:     pattern(`(buffer.*underrun|buffering|stream.*lag|playback.*stutter)`),
		Severity:    SeverityWarning,
		Title:       "Audio Buffering Issues",
		Description: "Audio buffer underrun causing playback issues",
		Remediation: "Audio buffering problems (buffer underrun):\n" +
			"- Network too slow for selected quality\n" +
			"- Try lower quality settings\n" +
			"- Use wired connection instead of WiFi\n" +
			"- Check for network congestion\n" +
			"- Increase buffer size in advanced settings if available",
	},
	{
		Key:         "tag_error",
		Pattern:     pattern(`(tag.*error|metadata.*invalid|id3.*error|corrupt.*tag)`),
		Severity:    SeverityInfo,
		Title:       "Media File Tag/Metadata Issues",
		Description: "Audio file metadata is corrupted or invalid",
		Remediation: "Media file tags/metadata have issues:\n" +
			"- Use a tag editor (like MusicBrainz Picard, Mp3tag) to fix metadata\n" +
			"- Common issues: corrupted ID3 tags, wrong encoding\n" +
			"- After fixing tags, rescan your library\n" +
			"- For local files: verify file integrity\n" +
			"- See: " + docsBase + "/#tag-issues",
	},
	{
		Key:         "sync_error",
		Pattern:     pattern(`(player.*already.*sync|sync.*conflict|group.*error|player.*unavailable)`),
		Severity:    SeverityWarning,
		Title:       "Player Sync/Grouping Issues",
		Description: "Problems syncing or grouping players",
		Remediation: "Player synchronization issues:\n" +
			"- Ungroup all players and try again\n" +
			"- Restart affected player devices\n" +
			"- Check all players are on the same network\n" +
			"- Verify firmware is up to date on all devices\n" +
			"- Some device combinations cannot be grouped (different protocols)",
	},
	{
		Key:         "ssl_error",
		Pattern:     pattern(`(ssl.*error|certificate.*verif.*fail|certifi?cate.*invalid|https.*error)`),
		Severity:    SeverityError,
		Title:       "SSL/Certificate Error",
		Description: "SSL certificate validation failed",
		Remediation: "SSL certificate validation errors:\n" +
			"- **Check system time:** Wrong date/time causes cert validation to fail\n" +
			"- Update CA certificates on your system\n" +
			"- If using local SSL without proper setup, disable it\n" +
			"- For Docker: ensure container has updated certificates\n" +
			"- Don't use self-signed certificates without proper configuration",
	},
	{
		Key:         "missing_module",
		Pattern:     pattern(`(modulenotfounderror|importerror|no module named)`),
		Severity:    SeverityCritical,
		Title:       "Missing Server Dependencies",
		Description: "A required server module is missing",
		Remediation: "Critical: server dependencies are missing:\n" +
			"- This indicates installation corruption\n" +
			"- **For the add-on:** Restart the add-on or reinstall\n" +
			"- **For Docker:** Rebuild the container\n" +
			"- **For manual install:** Reinstall the server requirements\n" +
			"- If issue persists, report as a bug with full logs",
	},
	{
		Key:         "region_restriction",
		Pattern:     pattern(`(not available in.*region|geo.*block|region.*restrict|content.*unavailable)`),
		Severity:    SeverityInfo,
		Title:       "Region Restriction",
		Description: "Content not available in your region",
		Remediation: "Content is restricted in your geographic region:\n" +
			"- Verify your account region matches the provider region\n" +
			"- Some content is only available in specific countries\n" +
			"- Check provider account settings for region configuration\n" +
			"- This is a provider limitation, not a server issue",
	},
}
