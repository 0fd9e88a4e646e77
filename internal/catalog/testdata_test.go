package catalog

const sampleJSON = `{
  "categories": [
    {"id": "editors", "name": "Editors"},
    {"id": "vcs", "name": "Version Control"},
    {"id": "empty"},
    {"id": "cli", "name": "command line"}
  ],
  "tools": [
    {"id": "git", "name": "Git", "category": "vcs", "brew_package": "git", "check_command": "git --version"},
    {"id": "gh", "name": "GitHub CLI", "category": "vcs", "brew_package": "gh", "requires": ["git"]},
    {"id": "vscode", "name": "Visual Studio Code", "category": "editors", "brew_package": "visual-studio-code", "cask": true, "requires": ["git"]},
    {"id": "omz", "category": "cli", "type": "custom",
     "install_command": "sh -c \"$(curl -fsSL https://ohmyz.sh/install.sh)\"",
     "pre_install": ["echo before"], "post_install": ["echo after"]},
    {"id": "stray", "name": "Stray", "category": "gone"}
  ]
}`

const sampleYAML = `
categories:
  - id: vcs
    name: Version Control
tools:
  - id: git
    name: Git
    category: vcs
    brew_package: git
  - id: gh
    name: GitHub CLI
    category: vcs
    brew_package: gh
    requires: [git]
`
