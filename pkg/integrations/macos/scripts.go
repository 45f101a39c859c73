package macos

// Every script prints a "class|title" tagged pair except basicScript, which
// prints only the frontmost process name.

const enhancedScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set windowTitle to ""

	try
		set windowTitle to name of front window of frontApp
	on error
		try
			set windowTitle to value of attribute "AXTitle" of front window of frontApp
		on error
			try
				set windowTitle to name of document 1 of frontApp
			on error
				if appName contains "Chrome" then
					try
						tell application "Google Chrome"
							set windowTitle to title of active tab of front window
						end tell
					end try
				else if appName contains "Safari" then
					try
						tell application "Safari"
							set windowTitle to name of current tab of front window
						end tell
					end try
				else if appName contains "Firefox" then
					try
						tell application "Firefox"
							set windowTitle to name of front window
						end tell
					end try
				end if
			end try
		end try
	end try

	if windowTitle is "" then
		return appName & "|" & appName
	end if

	if appName contains "Chrome" then
		if windowTitle contains " - Google Chrome" then
			set windowTitle to text 1 thru ((offset of " - Google Chrome" in windowTitle) - 1) of windowTitle
		end if
		return "Chrome|" & windowTitle
	else if appName contains "Safari" then
		if windowTitle contains " — " then
			set windowTitle to text 1 thru ((offset of " — " in windowTitle) - 1) of windowTitle
		end if
		return "Safari|" & windowTitle
	else if appName contains "Firefox" then
		if windowTitle contains " - Mozilla Firefox" then
			set windowTitle to text 1 thru ((offset of " - Mozilla Firefox" in windowTitle) - 1) of windowTitle
		end if
		return "Firefox|" & windowTitle
	else if appName contains "Code" then
		return "VS Code|" & windowTitle
	else if appName contains "Terminal" then
		return "Terminal|" & windowTitle
	else if appName contains "Finder" then
		return "Finder|" & windowTitle
	end if

	return appName & "|" & windowTitle
end tell
`

const browserScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
end tell

try
	if appName contains "Safari" then
		tell application "Safari"
			if (count of windows) > 0 then
				return "Safari|" & (name of current tab of front window)
			end if
		end tell
	else if appName contains "Chrome" then
		tell application "Google Chrome"
			if (count of windows) > 0 then
				return "Chrome|" & (title of active tab of front window)
			end if
		end tell
	else if appName contains "Firefox" then
		tell application "System Events"
			tell process "Firefox"
				if (count of windows) > 0 then
					set windowTitle to name of front window
					if windowTitle contains " - Mozilla Firefox" then
						set windowTitle to text 1 thru ((offset of " - Mozilla Firefox" in windowTitle) - 1) of windowTitle
					end if
					return "Firefox|" & windowTitle
				end if
			end tell
		end tell
	else if appName contains "Brave" then
		try
			tell application "Brave Browser"
				if (count of windows) > 0 then
					return "Brave|" & (title of active tab of front window)
				end if
			end tell
		on error
			tell application "System Events"
				tell process "Brave Browser"
					if (count of windows) > 0 then
						set windowTitle to name of front window
						if windowTitle contains " - Brave" then
							set windowTitle to text 1 thru ((offset of " - Brave" in windowTitle) - 1) of windowTitle
						end if
						return "Brave|" & windowTitle
					end if
				end tell
			end tell
		end try
	else if appName contains "Arc" then
		tell application "Arc"
			if (count of windows) > 0 then
				return "Arc|" & (title of active tab of front window)
			end if
		end tell
	else if appName contains "Edge" then
		tell application "Microsoft Edge"
			if (count of windows) > 0 then
				return "Edge|" & (title of active tab of front window)
			end if
		end tell
	end if
on error
	try
		tell application "System Events"
			tell frontApp
				if (count of windows) > 0 then
					return appName & "|" & (name of front window)
				end if
			end tell
		end tell
	on error
		return appName & "|" & appName
	end try
end try

return "Unknown|No Browser Tab"
`

const generalScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp

	try
		set windowTitle to name of front window of frontApp

		if appName contains "Code" then
			return "VS Code|" & windowTitle
		else if appName contains "Terminal" then
			return "Terminal|" & windowTitle
		else if appName contains "Finder" then
			return "Finder|" & windowTitle
		else if appName contains "Xcode" then
			return "Xcode|" & windowTitle
		else if appName contains "Slack" then
			return "Slack|" & windowTitle
		else if appName contains "Discord" then
			return "Discord|" & windowTitle
		else if appName contains "Zoom" then
			return "Zoom|" & windowTitle
		else if appName contains "Teams" then
			return "Teams|" & windowTitle
		else if appName contains "Notion" then
			return "Notion|" & windowTitle
		else if appName contains "Obsidian" then
			return "Obsidian|" & windowTitle
		end if

		return appName & "|" & windowTitle
	on error
		return appName & "|Active"
	end try
end tell
`

const basicScript = `
tell application "System Events"
	return name of (first application process whose frontmost is true)
end tell
`
