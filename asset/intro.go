package asset

// BuiltinIntro is the overlay texture path that selects IntroLogo instead of a file
const BuiltinIntro = "builtin:logo"

// IntroLogo is the default intro overlay art
const IntroLogo = `
 __     __ _        ____   _              _
 \ \   / /(_)      |  _ \ (_) ___  _ __  | |  __ _  _   _
  \ \ / / | | _____| | | || |/ __|| '_ \ | | / _' || | | |
   \ V /  | ||_____| |_| || |\__ \| |_) || || (_| || |_| |
    \_/   |_|      |____/ |_||___/| .__/ |_| \__,_| \__, |
                                  |_|               |___/
`
