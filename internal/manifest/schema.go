package manifest

const schema = `
-- One row per managed application install
CREATE TABLE IF NOT EXISTS installs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    app TEXT NOT NULL UNIQUE CHECK(length(app) > 0),
    version TEXT NOT NULL DEFAULT '',
    install_dir TEXT NOT NULL,
    executable TEXT NOT NULL,
    shortcut TEXT NOT NULL DEFAULT '',
    path_added INTEGER NOT NULL DEFAULT 0,
    installed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Files written by the installer, one row each
CREATE TABLE IF NOT EXISTS install_files (
    install_id INTEGER NOT NULL,
    path TEXT NOT NULL,
    PRIMARY KEY (install_id, path),
    FOREIGN KEY (install_id) REFERENCES installs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_install_files_install ON install_files(install_id);
`
